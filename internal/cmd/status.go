package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/Digital-Shane/symmirror/internal/core"

	"github.com/spf13/afero"
)

// StatusCommand lists every stored mapping with its current output.
var StatusCommand = CommandConfig{
	run: runStatus,
}

func runStatus(_ context.Context, rt *Runtime) error {
	recs, err := rt.Store.All()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(rt.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INPUT\tOUTPUT\tLINKS\tFILTERED\tSTATE")
	for _, rec := range recs {
		ok, err := afero.DirExists(rt.Fs, rec.InPath)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%v\n", rec.InPath, err)
			continue
		}
		if !ok {
			fmt.Fprintf(w, "%s\t-\t-\t-\tmissing\n", rec.InPath)
			continue
		}
		d, err := core.LoadMappedDir(rt.Fs, rec.InPath, core.Configs(rec.Configs))
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%v\n", rec.InPath, err)
			continue
		}
		links := d.LinkCount()
		filtered := len(d.InFiles()) - links
		out, ok := d.OutDirName()
		if !ok {
			fmt.Fprintf(w, "%s\terror\t%d\t%d\tunmappable\n", rec.InPath, links, filtered)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\tok\n", rec.InPath, out, links, filtered)
	}
	return w.Flush()
}
