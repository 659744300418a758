package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/sling/internal/usecase"
)

// InitRenderer renders the result of `sling init`
type InitRenderer struct {
	out io.Writer
}

// NewInitRenderer creates a new init renderer
func NewInitRenderer(out io.Writer) *InitRenderer {
	return &InitRenderer{out: out}
}

// Render prints failed steps and what to do next
func (r *InitRenderer) Render(result *usecase.InitProjectResult) error {
	for _, step := range result.Steps {
		if step.Error != nil {
			fmt.Fprintln(r.out, FormatError(step.Error.Error()))
		}
	}

	fmt.Fprintln(r.out)
	if result.AlreadyInitialized {
		fmt.Fprintln(r.out, FormatSuccess("Project already initialized"))
	} else {
		fmt.Fprintln(r.out, FormatSuccess("Project initialized"))
	}

	fmt.Fprintln(r.out)
	headerStyle.Fprintln(r.out, "Next steps:")
	fmt.Fprintln(r.out, "  1. Compile your contracts (truffle compile, forge build)")
	fmt.Fprintln(r.out, "  2. List them in migrations.yaml")
	fmt.Fprintln(r.out, "  3. Start a local node:   sling node start")
	fmt.Fprintln(r.out, "  4. Run the migrations:   sling migrate")
	return nil
}
