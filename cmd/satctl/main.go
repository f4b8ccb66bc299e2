// Command satctl is the ground-side tool for command programs: it validates
// a program against the syntax and the role permission table, and submits
// accepted programs into a control station's uplink inbox.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/satellite-control-sim/internal/config"
	"github.com/signalsfoundry/satellite-control-sim/internal/program"
	"github.com/signalsfoundry/satellite-control-sim/model"
)

func main() {
	var role int

	root := &cobra.Command{
		Use:           "satctl",
		Short:         "Ground-side tooling for satellite command programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().IntVar(&role, "role", int(model.RoleAdmin), "role to validate against (1=photo, 2=vip, 3=admin)")

	check := &cobra.Command{
		Use:   "check <program.txt>",
		Short: "Parse a program and report which commands the role may issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], model.Role(role))
		},
	}

	var inbox string
	submit := &cobra.Command{
		Use:   "submit <program.txt>",
		Short: "Validate a program and drop it into a station's uplink inbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, args[0], model.Role(role), inbox)
		},
	}
	submit.Flags().StringVar(&inbox, "inbox", config.DefaultInboxDir, "uplink inbox directory of the target station")

	root.AddCommand(check, submit)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "satctl:", err)
		os.Exit(1)
	}
}

func parseFile(path string) ([]program.Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return program.Parse(f)
}

// runCheck is a dry run: nothing is submitted, each command is reported as
// allowed or denied for the role.
func runCheck(cmd *cobra.Command, path string, role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %d", role)
	}
	commands, err := parseFile(path)
	if err != nil {
		return err
	}

	denied := 0
	for i, c := range commands {
		verdict := "ALLOWED"
		if !program.Allowed(role, c.Kind) {
			verdict = "DENIED"
			denied++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "#%d %-12s %s\n", i+1, c.Kind, verdict)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d commands, %d denied for role %s\n", len(commands), denied, role)

	if denied > 0 {
		return fmt.Errorf("%d of %d commands denied for role %s", denied, len(commands), role)
	}
	return nil
}

// runSubmit validates the whole program for the role and copies it into the
// inbox under a collision-free name. The station archives it after
// execution.
func runSubmit(cmd *cobra.Command, path string, role model.Role, inbox string) error {
	if err := runCheck(cmd, path, role); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(inbox, 0o755); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	target := filepath.Join(inbox, fmt.Sprintf("%s-%s.txt", base, uuid.NewString()[:8]))

	// Write-then-rename so the station's watcher never reads a partial file.
	tmp := target + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "submitted %s\n", target)
	return nil
}
