package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/foundrr/foundrr-backend/internal/app"
	types "github.com/foundrr/foundrr-backend/internal/domain"
	"github.com/foundrr/foundrr-backend/internal/modules/generation/extract"
	"github.com/foundrr/foundrr-backend/internal/platform/dbctx"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

// site_audit reports stored documents that lack a nav, hero or footer and
// can heal HTML documents in place.
func main() {
	var ids idList
	var owner string
	var status string
	var heal bool
	var limit int
	flag.Var(&ids, "site", "site id to audit (repeatable)")
	flag.StringVar(&owner, "owner", "", "audit every site of this user id")
	flag.StringVar(&status, "status", "", "audit sites with this payment status")
	flag.BoolVar(&heal, "heal", false, "rewrite html documents with placeholders for missing roles")
	flag.IntVar(&limit, "limit", 200, "max sites per listing")
	flag.Parse()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	dbc := dbctx.With(ctx)
	siteRepo := application.Repos.Site

	var rows []*types.Site
	switch {
	case len(ids) > 0:
		for _, id := range ids {
			row, err := siteRepo.GetByID(dbc, id)
			if err != nil {
				fmt.Printf("site %s: %v\n", id, err)
				continue
			}
			rows = append(rows, row)
		}
	case owner != "":
		ownerID, err := uuid.Parse(strings.TrimSpace(owner))
		if err != nil {
			fmt.Printf("invalid -owner: %v\n", err)
			os.Exit(2)
		}
		rows, err = siteRepo.ListByOwner(dbc, ownerID, limit)
		if err != nil {
			fmt.Printf("list sites: %v\n", err)
			os.Exit(1)
		}
	case status != "":
		rows, err = siteRepo.ListByPaymentStatus(dbc, types.PaymentStatus(status), limit)
		if err != nil {
			fmt.Printf("list sites: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Println("one of -site, -owner or -status is required")
		os.Exit(2)
	}

	bucket := application.Clients.GcpBucket
	var incomplete, healed int
	for _, row := range rows {
		rc, err := bucket.DownloadObject(ctx, row.StoragePath)
		if err != nil {
			fmt.Printf("%s: download failed: %v\n", row.ID, err)
			continue
		}
		raw, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			fmt.Printf("%s: read failed: %v\n", row.ID, err)
			continue
		}

		dialect := extract.DialectHTML
		if types.Mode(row.Mode) == types.ModeSPA {
			dialect = extract.DialectReact
		}
		missing := extract.Missing(string(raw), dialect)
		if len(missing) == 0 {
			continue
		}
		incomplete++
		fmt.Printf("%s: missing %v (mode=%s)\n", row.ID, missing, row.Mode)

		// React documents are compiled in the browser; healing them needs the
		// original program, which is not stored.
		if !heal || dialect != extract.DialectHTML {
			continue
		}
		out := extract.Heal(string(raw), dialect, types.Lang(row.Lang))
		if err := bucket.UploadObject(ctx, row.StoragePath, strings.NewReader(out.Code), "text/html; charset=utf-8"); err != nil {
			fmt.Printf("%s: upload failed: %v\n", row.ID, err)
			continue
		}
		healed++
	}
	fmt.Printf("audited=%d incomplete=%d healed=%d\n", len(rows), incomplete, healed)
}
