package system

import (
	"fmt"

	"github.com/julianstephens/readlit/internal/cli"
	"github.com/julianstephens/readlit/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	l, err := ctx.Ledger()
	if err != nil {
		return err
	}

	result := validation.New().Validate(l.Snapshot())
	ctx.Println(result.FormatReport())
	if result.HasConflicts() {
		return fmt.Errorf("found %d conflicts", len(result.Conflicts))
	}
	return nil
}
