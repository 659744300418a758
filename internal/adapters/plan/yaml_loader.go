package plan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads the migration plan from migrations.yaml
type YAMLLoader struct {
	path string
}

// NewYAMLLoader creates a loader for the project's migrations file
func NewYAMLLoader(cfg *config.RuntimeConfig) *YAMLLoader {
	path := cfg.Project.Migrations.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	return &YAMLLoader{path: path}
}

type planFile struct {
	Migrations []migrationEntry `yaml:"migrations"`
}

type migrationEntry struct {
	Number   int        `yaml:"number"`
	Name     string     `yaml:"name"`
	Contract string     `yaml:"contract"`
	From     string     `yaml:"from"`
	Args     []argEntry `yaml:"args"`
	Requires []string   `yaml:"requires"`
}

// argEntry is one of {ref: X}, {account: N}, {env: V}, {value: x} or a bare scalar
type argEntry struct {
	arg domain.Arg
}

// UnmarshalYAML implements yaml.Unmarshaler
func (a *argEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return err
		}
		a.arg = domain.Arg{Kind: domain.ArgLiteral, Value: v}
		return nil
	case yaml.SequenceNode:
		var v []any
		if err := node.Decode(&v); err != nil {
			return err
		}
		a.arg = domain.Arg{Kind: domain.ArgLiteral, Value: v}
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: unsupported argument", node.Line)
	}

	var form struct {
		Ref     *string `yaml:"ref"`
		Account *int    `yaml:"account"`
		Env     *string `yaml:"env"`
		Value   any     `yaml:"value"`
	}
	if err := node.Decode(&form); err != nil {
		return err
	}
	if len(node.Content) != 2 {
		return fmt.Errorf("line %d: argument must have exactly one of ref, account, env or value", node.Line)
	}

	switch key := node.Content[0].Value; key {
	case "ref":
		if form.Ref == nil || *form.Ref == "" {
			return fmt.Errorf("line %d: ref needs a contract name", node.Line)
		}
		a.arg = domain.Arg{Kind: domain.ArgRef, Ref: *form.Ref}
	case "account":
		if form.Account == nil {
			return fmt.Errorf("line %d: account needs an index", node.Line)
		}
		a.arg = domain.Arg{Kind: domain.ArgAccount, Account: *form.Account}
	case "env":
		if form.Env == nil || *form.Env == "" {
			return fmt.Errorf("line %d: env needs a variable name", node.Line)
		}
		a.arg = domain.Arg{Kind: domain.ArgEnv, Env: *form.Env}
	case "value":
		a.arg = domain.Arg{Kind: domain.ArgLiteral, Value: form.Value}
	default:
		return fmt.Errorf("line %d: unknown argument form %q", node.Line, key)
	}
	return nil
}

// Load reads and parses the migrations file
func (l *YAMLLoader) Load(ctx context.Context) (*domain.MigrationPlan, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (run 'sling init' to create one)", domain.ErrNotFound, l.path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(l.path, data)
}

// Parse decodes a migration plan
func Parse(path string, data []byte) (*domain.MigrationPlan, error) {
	var file planFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	plan := &domain.MigrationPlan{Path: path}
	for _, entry := range file.Migrations {
		m := &domain.Migration{
			Number:   entry.Number,
			Name:     entry.Name,
			Contract: entry.Contract,
			From:     entry.From,
			Requires: entry.Requires,
		}
		for _, a := range entry.Args {
			m.Args = append(m.Args, a.arg)
		}
		plan.Migrations = append(plan.Migrations, m)
	}

	return plan, nil
}

var _ usecase.PlanLoader = (*YAMLLoader)(nil)
