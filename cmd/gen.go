package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	units "github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cocoonstack/cocoon-hwaddr/feed"
	"github.com/cocoonstack/cocoon-hwaddr/hwaddr"
	"github.com/cocoonstack/cocoon-hwaddr/types"
)

var errNICsWithFile = errors.New("--nics cannot be combined with --file")

type genOptions struct {
	nics   int
	asUUID bool
	asFile bool
}

func newGenCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [flags] INPUT [INPUT...]",
		Short: "Derive one address per input, or one per NIC with --nics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.runGen,
	}
	cmd.Flags().Int("nics", 0, "derive N per-interface addresses for each input")
	cmd.Flags().String("format", types.FormatColon, "output style: colon, dash or plain")
	cmd.Flags().Bool("uuid", false, "parse inputs as UUIDs (VM IDs)")
	cmd.Flags().Bool("file", false, "treat inputs as file paths and fold their contents")
	cmd.Flags().Bool("json", false, "print JSON instead of a table")
	cmd.MarkFlagsMutuallyExclusive("uuid", "file")

	_ = c.vp.BindPFlag("nics", cmd.Flags().Lookup("nics"))
	_ = c.vp.BindPFlag("format", cmd.Flags().Lookup("format"))
	return cmd
}

func (c *cli) runGen(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	asUUID, _ := cmd.Flags().GetBool("uuid")
	asFile, _ := cmd.Flags().GetBool("file")
	asJSON, _ := cmd.Flags().GetBool("json")
	opts := genOptions{nics: c.conf.NICs, asUUID: asUUID, asFile: asFile}
	if opts.asFile && opts.nics > 0 {
		return errNICsWithFile
	}

	all, err := deriveAll(ctx, args, opts, c.conf.PoolSize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}
	return printAddrs(out, all, c.conf.Format)
}

// deriveAll derives every input concurrently, at most poolSize at a time.
// Output keeps the order of inputs.
func deriveAll(ctx context.Context, inputs []string, opts genOptions, poolSize int) ([]types.NICAddr, error) {
	results := make([][]types.NICAddr, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	if poolSize > 0 {
		g.SetLimit(poolSize)
	}
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			addrs, err := deriveAddrs(ctx, input, opts)
			if err != nil {
				return err
			}
			results[i] = addrs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []types.NICAddr
	for _, addrs := range results {
		all = append(all, addrs...)
	}
	return all, nil
}

func deriveAddrs(ctx context.Context, input string, opts genOptions) ([]types.NICAddr, error) {
	switch {
	case opts.asFile:
		mac, err := foldFile(ctx, input)
		if err != nil {
			return nil, err
		}
		return []types.NICAddr{{Input: input, Index: -1, Mac: mac}}, nil

	case opts.asUUID:
		id, err := uuid.Parse(input)
		if err != nil {
			return nil, fmt.Errorf("parse UUID %q: %w", input, err)
		}
		if opts.nics == 0 {
			return []types.NICAddr{{Input: input, VMID: &id, Index: -1, Mac: hwaddr.ForUUID(id)}}, nil
		}
		addrs := make([]types.NICAddr, 0, opts.nics)
		for i := range opts.nics {
			mac := hwaddr.Generate(feed.Tuple(feed.UUID(id), feed.Int(i)))
			addrs = append(addrs, types.NICAddr{Input: input, VMID: &id, Index: i, Mac: mac})
		}
		return addrs, nil

	default:
		if opts.nics == 0 {
			return []types.NICAddr{{Input: input, Index: -1, Mac: hwaddr.ForName(input)}}, nil
		}
		addrs := make([]types.NICAddr, 0, opts.nics)
		for i := range opts.nics {
			addrs = append(addrs, types.NICAddr{Input: input, Index: i, Mac: hwaddr.ForInterface(input, i)})
		}
		return addrs, nil
	}
}

func foldFile(ctx context.Context, path string) (types.HwAddr, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied input path
	if err != nil {
		return types.HwAddr{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	mac, err := hwaddr.FromReader(f)
	if err != nil {
		return types.HwAddr{}, fmt.Errorf("fold %s: %w", path, err)
	}
	if fi, statErr := f.Stat(); statErr == nil {
		log.WithFunc("cmd.gen").Infof(ctx, "folded %s (%s) into %s", path, units.HumanSize(float64(fi.Size())), mac)
	}
	return mac, nil
}

func printAddrs(out io.Writer, addrs []types.NICAddr, format string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd
	_, _ = fmt.Fprintln(w, "INPUT\tNIC\tMAC")
	for _, a := range addrs {
		mac, err := a.Mac.Format(format)
		if err != nil {
			return err
		}
		nic := "-"
		if a.Index >= 0 {
			nic = strconv.Itoa(a.Index)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", a.Input, nic, mac)
	}
	return w.Flush()
}
