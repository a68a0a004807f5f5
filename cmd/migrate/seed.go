package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/agent"
	"github.com/taponce/backend/internal/domain/catalog"
	"github.com/taponce/backend/internal/domain/identity"
	"github.com/taponce/backend/internal/domain/shared"
	"github.com/taponce/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedOptions struct {
	AdminEmail    string
	AdminPassword string
	Agents        int
	Seed          int64
}

type starterDesign struct {
	name     string
	material string
	msp      int64
}

var starterCatalog = []starterDesign{
	{"Classic White", "pvc", 499},
	{"Matte Black", "pvc", 599},
	{"Brushed Steel", "metal", 1499},
	{"Bamboo", "wood", 899},
}

// seed inserts an admin, the starter catalog and a small agent tree. Rows
// that already exist are left alone so the command can be rerun.
func seed(db *gorm.DB, opts seedOptions, log *zap.Logger) error {
	if opts.AdminPassword == "" {
		return errors.New("-admin-password is required")
	}
	ctx := context.Background()
	faker := gofakeit.New(opts.Seed)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profiles := persistence.NewGormProfileRepository(tx)
		designs := persistence.NewGormCardDesignRepository(tx)
		agents := persistence.NewGormAgentRepository(tx)

		exists, err := profiles.ExistsByEmail(ctx, opts.AdminEmail)
		if err != nil {
			return err
		}
		if exists {
			log.Info("Admin already present", zap.String("email", opts.AdminEmail))
		} else {
			admin, err := identity.NewProfileWithPassword(opts.AdminEmail, "TapOnce Admin", "", identity.RoleAdmin, opts.AdminPassword)
			if err != nil {
				return err
			}
			if err := profiles.Save(ctx, admin); err != nil {
				return fmt.Errorf("failed to save admin: %w", err)
			}
			log.Info("Admin created", zap.String("email", admin.Email))
		}

		count, err := designs.Count(ctx, shared.DefaultFilter())
		if err != nil {
			return err
		}
		if count == 0 {
			for _, d := range starterCatalog {
				design, err := catalog.NewCardDesign(d.name, d.material, decimal.NewFromInt(d.msp))
				if err != nil {
					return err
				}
				if err := designs.Save(ctx, design); err != nil {
					return fmt.Errorf("failed to save design %s: %w", d.name, err)
				}
			}
			log.Info("Starter catalog created", zap.Int("designs", len(starterCatalog)))
		}

		// The first agent recruits every other one
		var root *uuid.UUID
		for i := 0; i < opts.Agents; i++ {
			a, err := seedAgent(ctx, faker, profiles, agents, i, root)
			if err != nil {
				return err
			}
			if a == nil {
				continue
			}
			if root == nil {
				root = &a.ID
			}
			log.Info("Demo agent created", zap.String("referral_code", a.ReferralCode))
		}
		return nil
	})
}

func seedAgent(
	ctx context.Context,
	faker *gofakeit.Faker,
	profiles *persistence.GormProfileRepository,
	agents *persistence.GormAgentRepository,
	index int,
	parent *uuid.UUID,
) (*agent.Agent, error) {
	first, last := faker.FirstName(), faker.LastName()
	email := fmt.Sprintf("%s.%s.%d@demo.taponce.local", emailPart(first), emailPart(last), index)
	exists, err := profiles.ExistsByEmail(ctx, email)
	if err != nil || exists {
		return nil, err
	}

	p, err := identity.NewProfile(email, first+" "+last, faker.Numerify("98########"), identity.RoleAgent)
	if err != nil {
		return nil, err
	}
	if err := profiles.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save agent profile: %w", err)
	}

	code, err := agent.GenerateReferralCode()
	if err != nil {
		return nil, err
	}
	a, err := agent.NewAgent(p.ID, code, parent, faker.City())
	if err != nil {
		return nil, err
	}
	if err := a.ChangeStatus(agent.AgentStatusActive); err != nil {
		return nil, err
	}
	if err := agents.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save agent: %w", err)
	}
	return a, nil
}

// emailPart keeps the ASCII letters of a name
func emailPart(name string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(name))
}
