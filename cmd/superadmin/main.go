package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/hse-digital/platform/modules/core/domain/aggregates/user"
	"github.com/hse-digital/platform/modules/core/domain/entities/tenant"
	corepersistence "github.com/hse-digital/platform/modules/core/infrastructure/persistence"
	"github.com/hse-digital/platform/pkg/application"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/configuration"
	"github.com/hse-digital/platform/pkg/tenancy"
)

const usage = `superadmin <command>

Commands:
  migrate up|down                 apply or roll back migrations
  tenant create <name> [domain]   provision an organization
  tenant list                     list organizations
  tenant suspend <id>             suspend an organization
  tenant activate <id>            re-activate an organization
  user create <email> <role> [org-id]  register an account
  stats                           per-organization record counts
`

// superadmin is the only entrypoint that talks to the database through the
// privileged role. It never serves tenant requests; everything here is
// operator tooling that legitimately crosses organization boundaries.
func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		fmt.Print(usage)
		os.Exit(2)
	}

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	bypass, err := tenancy.NewBypass(ctx, conf, logger)
	if err != nil {
		log.Fatalf("failed to connect with privileged role: %v", err)
	}
	defer bypass.Close()

	switch args[0] {
	case "migrate":
		runMigrate(bypass, conf, args[1:])
	case "tenant":
		runTenant(ctx, bypass, args[1:])
	case "user":
		runUser(ctx, bypass, args[1:])
	case "stats":
		runStats(ctx, bypass)
	default:
		fmt.Print(usage)
		os.Exit(2)
	}
}

func runMigrate(bypass *tenancy.Bypass, conf *configuration.Configuration, args []string) {
	manager := application.NewMigrationManager(bypass.Pool(), conf.MigrationsDir)

	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}
	switch direction {
	case "up":
		if err := manager.Run(); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		log.Println("migrations applied")
	case "down":
		if err := manager.Rollback(); err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		log.Println("last migration rolled back")
	default:
		log.Fatalf("unknown migrate direction %q", direction)
	}
}

func runTenant(ctx context.Context, bypass *tenancy.Bypass, args []string) {
	if len(args) == 0 {
		fmt.Print(usage)
		os.Exit(2)
	}
	repo := corepersistence.NewTenantRepository()

	switch args[0] {
	case "create":
		if len(args) < 2 {
			log.Fatal("tenant create requires a name")
		}
		opts := []tenant.Option{}
		if len(args) > 2 {
			opts = append(opts, tenant.WithDomain(args[2]))
		}
		t := tenant.New(args[1], opts...)
		err := bypass.InTx(ctx, "tenant-create", func(txCtx context.Context) error {
			created, err := repo.Create(txCtx, t)
			if err != nil {
				return err
			}
			fmt.Printf("created organization %s (%s)\n", created.Name(), created.ID())
			return nil
		})
		if err != nil {
			log.Fatalf("tenant create failed: %v", err)
		}
	case "list":
		err := bypass.InTx(ctx, "tenant-list", func(txCtx context.Context) error {
			tenants, err := repo.List(txCtx)
			if err != nil {
				return err
			}
			for _, t := range tenants {
				fmt.Printf("%s\t%s\t%s\t%s\n", t.ID(), t.Name(), t.Domain(), t.SubscriptionStatus())
			}
			return nil
		})
		if err != nil {
			log.Fatalf("tenant list failed: %v", err)
		}
	case "suspend", "activate":
		if len(args) < 2 {
			log.Fatalf("tenant %s requires an id", args[0])
		}
		id, err := uuid.Parse(args[1])
		if err != nil {
			log.Fatalf("invalid organization id: %v", err)
		}
		action := args[0]
		err = bypass.InTx(ctx, "tenant-"+action, func(txCtx context.Context) error {
			t, err := repo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if action == "suspend" {
				t.Suspend()
			} else {
				t.Activate()
			}
			_, err = repo.Update(txCtx, t)
			return err
		})
		if err != nil {
			log.Fatalf("tenant %s failed: %v", action, err)
		}
		fmt.Printf("organization %s %sd\n", id, action)
	default:
		fmt.Print(usage)
		os.Exit(2)
	}
}

func runUser(ctx context.Context, bypass *tenancy.Bypass, args []string) {
	if len(args) < 3 || args[0] != "create" {
		fmt.Print(usage)
		os.Exit(2)
	}

	opts := []user.Option{user.WithRole(user.Role(args[2]))}
	if len(args) > 3 {
		orgID, err := uuid.Parse(args[3])
		if err != nil {
			log.Fatalf("invalid organization id: %v", err)
		}
		opts = append(opts, user.WithTenantID(&orgID))
	}
	u := user.New(args[1], opts...)

	repo := corepersistence.NewUserRepository()
	err := bypass.InTx(ctx, "user-create", func(txCtx context.Context) error {
		created, err := repo.Create(txCtx, u)
		if err != nil {
			return err
		}
		fmt.Printf("created user %s (%s)\n", created.Email(), created.ID())
		return nil
	})
	if err != nil {
		log.Fatalf("user create failed: %v", err)
	}
}

// runStats reports record counts across every organization. This is the
// canonical bypass use case: a platform-wide view no tenant-bound session
// could produce.
func runStats(ctx context.Context, bypass *tenancy.Bypass) {
	const query = `
		SELECT t.id, t.name,
			(SELECT COUNT(*) FROM audits a WHERE a.organization_id = t.id),
			(SELECT COUNT(*) FROM incidents i WHERE i.organization_id = t.id),
			(SELECT COUNT(*) FROM work_permits p WHERE p.organization_id = t.id)
		FROM tenants t
		ORDER BY t.name
	`
	err := bypass.InTx(ctx, "platform-stats", func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}
		rows, err := tx.Query(txCtx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		fmt.Println("organization\taudits\tincidents\twork permits")
		for rows.Next() {
			var id, name string
			var audits, incidents, permits int64
			if err := rows.Scan(&id, &name, &audits, &incidents, &permits); err != nil {
				return err
			}
			fmt.Printf("%s (%s)\t%d\t%d\t%d\n", name, id, audits, incidents, permits)
		}
		return rows.Err()
	})
	if err != nil {
		log.Fatalf("stats failed: %v", err)
	}
}
