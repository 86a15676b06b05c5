package payments

import (
	"fmt"
	"strconv"
	"strings"
)

// Discounts maps a lowercased email to its price override.
type Discounts map[string]float64

// ParseDiscounts reads "email=price,email=price".
func ParseDiscounts(raw string) (Discounts, error) {
	out := Discounts{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		email, price, ok := strings.Cut(part, "=")
		email = strings.ToLower(strings.TrimSpace(email))
		if !ok || email == "" {
			return nil, fmt.Errorf("discount %q: want email=price", part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("discount %q: bad price", part)
		}
		out[email] = v
	}
	return out, nil
}

func (d Discounts) For(email string) (float64, bool) {
	if len(d) == 0 || email == "" {
		return 0, false
	}
	v, ok := d[strings.ToLower(strings.TrimSpace(email))]
	return v, ok
}
