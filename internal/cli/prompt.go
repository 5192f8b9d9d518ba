package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
)

// confirm asks before destructive actions. Without a terminal on stdin the
// caller must pass --yes.
func confirm(title, desc string, id int64) error {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("confirmation required to delete report %d; rerun with --yes", id)
	}
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("aborted")
	}
	return nil
}
