package usecase

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/sling/internal/domain"
	"go.uber.org/multierr"
)

// ExecutionPlan is the validated, ordered form of a migration plan
type ExecutionPlan struct {
	Path  string
	Steps []*ExecutionStep
}

// ExecutionStep is one migration with its prerequisites worked out
type ExecutionStep struct {
	Migration *domain.Migration
	Requires  []string // contracts that must be live before deploying
	Producer  map[string]int
}

// Filter returns the steps whose migration number lies in [from, to]; zero bounds are open
func (p *ExecutionPlan) Filter(from, to int) []*ExecutionStep {
	return lo.Filter(p.Steps, func(step *ExecutionStep, _ int) bool {
		n := step.Migration.Number
		return (from == 0 || n >= from) && (to == 0 || n <= to)
	})
}

// BuildExecutionPlan validates a plan and orders it by migration number.
// All validation problems are reported together.
func BuildExecutionPlan(plan *domain.MigrationPlan) (*ExecutionPlan, error) {
	if plan == nil || len(plan.Migrations) == 0 {
		return nil, fmt.Errorf("migration plan has no migrations")
	}

	migrations := make([]*domain.Migration, len(plan.Migrations))
	copy(migrations, plan.Migrations)
	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Number < migrations[j].Number
	})

	var errs error
	numbers := make(map[int]string)
	names := make(map[string]int)
	producer := make(map[string]int) // contract -> migration number

	for _, m := range migrations {
		if m.Number <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("migration %q: number must be positive", m.DisplayName()))
		}
		if m.Contract == "" {
			errs = multierr.Append(errs, fmt.Errorf("migration %d: contract is required", m.Number))
		}
		if prev, dup := numbers[m.Number]; dup {
			errs = multierr.Append(errs, fmt.Errorf("migration number %d used by both %q and %q", m.Number, prev, m.DisplayName()))
		}
		numbers[m.Number] = m.DisplayName()

		if m.Name != "" {
			if prev, dup := names[m.Name]; dup {
				errs = multierr.Append(errs, fmt.Errorf("migration name %q used by migrations %d and %d", m.Name, prev, m.Number))
			}
			names[m.Name] = m.Number
		}

		if m.Contract != "" {
			if prev, dup := producer[m.Contract]; dup {
				errs = multierr.Append(errs, fmt.Errorf("contract %s deployed by migrations %d and %d", m.Contract, prev, m.Number))
			} else {
				producer[m.Contract] = m.Number
			}
		}
	}

	steps := make([]*ExecutionStep, 0, len(migrations))
	for _, m := range migrations {
		requires := requiredContracts(m)
		for _, req := range requires {
			if req == m.Contract {
				errs = multierr.Append(errs, fmt.Errorf("migration %d: %s cannot require itself", m.Number, req))
				continue
			}
			if n, ok := producer[req]; ok && n > m.Number {
				errs = multierr.Append(errs, fmt.Errorf(
					"migration %d requires %s, which is only deployed later by migration %d", m.Number, req, n))
			}
		}
		for i, arg := range m.Args {
			if arg.Kind == domain.ArgAccount && arg.Account < 0 {
				errs = multierr.Append(errs, fmt.Errorf("migration %d: argument %d has negative account index", m.Number, i))
			}
		}

		steps = append(steps, &ExecutionStep{
			Migration: m,
			Requires:  requires,
			Producer: lo.PickByKeys(producer, lo.Filter(requires, func(req string, _ int) bool {
				_, ok := producer[req]
				return ok
			})),
		})
	}

	if errs != nil {
		return nil, errs
	}

	return &ExecutionPlan{
		Path:  plan.Path,
		Steps: steps,
	}, nil
}

// requiredContracts is the ordered union of ref arguments and explicit requires
func requiredContracts(m *domain.Migration) []string {
	refs := lo.FilterMap(m.Args, func(arg domain.Arg, _ int) (string, bool) {
		return arg.Ref, arg.Kind == domain.ArgRef && arg.Ref != ""
	})
	return lo.Uniq(append(refs, m.Requires...))
}
