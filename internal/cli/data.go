package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/comitanigiacomo/onedo/internal/core/domain"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write the snapshot to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	habits, err := app.Habits.List(ctx.Ctx)
	if err != nil {
		return err
	}
	data, err := domain.EncodeSnapshot(habits)
	if err != nil {
		return err
	}

	if c.Output == "" {
		_, err = fmt.Fprintln(ctx.Out, string(data))
		return err
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	ctx.printf("Exported %d habits to %s\n", len(habits), c.Output)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Snapshot file to import, or - for stdin."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	var data []byte
	var err error
	if c.File == "-" {
		data, err = io.ReadAll(ctx.In)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	habits, err := domain.DecodeSnapshot(data)
	if err != nil {
		return err
	}

	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.Replace(ctx.Ctx, habits); err != nil {
		return err
	}

	ctx.printf("Imported %d habits.\n", len(habits))
	return nil
}
