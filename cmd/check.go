package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"

	"github.com/cocoonstack/cocoon-hwaddr/types"
)

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check ADDR [ADDR...]",
		Short: "Verify addresses are locally administered unicast",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.runCheck,
	}
}

func (c *cli) runCheck(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	logger := log.WithFunc("cmd.check")

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
	_, _ = fmt.Fprintln(w, "ADDR\tLOCAL\tUNICAST")
	var bad int
	for _, arg := range args {
		addr, err := types.ParseHwAddr(arg)
		if err != nil {
			logger.Warnf(ctx, "%v", err)
			_, _ = fmt.Fprintf(w, "%s\t-\t-\n", arg)
			bad++
			continue
		}
		if !addr.IsLocal() || !addr.IsUnicast() {
			bad++
		}
		formatted, _ := addr.Format(c.conf.Format)
		_, _ = fmt.Fprintf(w, "%s\t%t\t%t\n", formatted, addr.IsLocal(), addr.IsUnicast())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d addresses are not locally administered unicast", bad, len(args))
	}
	return nil
}
