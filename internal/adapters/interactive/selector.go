package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/sling/internal/domain"
	"github.com/trebuchet-org/sling/internal/domain/config"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
	run    func(promptui.Select) (int, error)
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{
		config: cfg,
		run: func(s promptui.Select) (int, error) {
			index, _, err := s.Run()
			return index, err
		},
	}
}

// SelectDeployment asks the user to pick one of several deployments
func (s *SelectorAdapter) SelectDeployment(ctx context.Context, deployments []*domain.Deployment, prompt string) (*domain.Deployment, error) {
	if len(deployments) == 0 {
		return nil, fmt.Errorf("no deployments provided for selection")
	}
	if len(deployments) == 1 {
		return deployments[0], nil
	}
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	options := formatDeploymentOptions(deployments)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, / to search, Enter to select"),
	}

	index, err := s.run(promptui.Select{
		Label:     prompt,
		Items:     options,
		Templates: templates,
		Size:      10,
		Searcher:  fuzzySearcher(options),
	})
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	if index < 0 || index >= len(deployments) {
		return nil, fmt.Errorf("selection out of range")
	}

	return deployments[index], nil
}

// formatDeploymentOptions renders "Contract 0xaddr (network/chain, #migration)"
func formatDeploymentOptions(deployments []*domain.Deployment) []string {
	options := make([]string, len(deployments))
	for i, dep := range deployments {
		name := color.New(color.FgWhite, color.Bold).Sprint(dep.ContractName)
		addr := color.New(color.FgGreen).Sprint(dep.Address)
		where := color.New(color.FgBlue).Sprintf("%s/%d", dep.Network, dep.ChainID)
		options[i] = fmt.Sprintf("%s %s (%s, #%d)", name, addr, where, dep.Migration)
	}
	return options
}

// fuzzySearcher matches substrings first, then falls back to a fuzzy match
func fuzzySearcher(items []string) func(input string, index int) bool {
	plain := make([]string, len(items))
	for i, item := range items {
		plain[i] = strings.ToLower(stripANSI(item))
	}
	return func(input string, index int) bool {
		if input == "" {
			return true
		}
		input = strings.ToLower(input)
		if strings.Contains(plain[index], input) {
			return true
		}
		return len(fuzzy.Find(input, []string{plain[index]})) > 0
	}
}

// stripANSI drops color escape sequences so searches match the visible text
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

var _ usecase.DeploymentSelector = (*SelectorAdapter)(nil)
