// Command vehiclefit ranks the catalog vehicles for a load file and can
// export the result as XLSX or PDF.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"vehicle-fit/internal/algorithm"
	"vehicle-fit/internal/catalog"
	"vehicle-fit/internal/domain"
	"vehicle-fit/internal/importer"
	"vehicle-fit/internal/report"
)

const (
	ExitSuccess           = 0
	ExitNoVehicle         = 1
	ExitInvalidInvocation = 2
	ExitInvalidInput      = 3
	ExitInternalError     = 4
)

type invocation struct {
	LoadsPath   string
	CatalogPath string
	Vehicles    []string
	XLSXPath    string
	PDFPath     string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseInvocation(args []string) (invocation, error) {
	fs := flag.NewFlagSet("vehiclefit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var inv invocation
	var vehicles string
	fs.StringVar(&inv.LoadsPath, "loads", "", "CSV or XLSX file with the loads (required)")
	fs.StringVar(&inv.CatalogPath, "catalog", "", "YAML vehicle catalog (default: built-in)")
	fs.StringVar(&vehicles, "vehicles", "", "comma separated vehicle names to restrict the evaluation to")
	fs.StringVar(&inv.XLSXPath, "xlsx", "", "write the report as XLSX to this path")
	fs.StringVar(&inv.PDFPath, "pdf", "", "write the report as PDF to this path")

	if err := fs.Parse(args); err != nil {
		return invocation{}, err
	}
	if fs.NArg() > 0 {
		return invocation{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if inv.LoadsPath == "" {
		return invocation{}, errors.New("-loads is required")
	}
	for _, name := range strings.Split(vehicles, ",") {
		if name = strings.TrimSpace(name); name != "" {
			inv.Vehicles = append(inv.Vehicles, name)
		}
	}
	return inv, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	inv, err := parseInvocation(args)
	if err != nil {
		fmt.Fprintf(stderr, "vehiclefit: %v\n", err)
		fmt.Fprintln(stderr, "usage: vehiclefit -loads FILE [-vehicles a,b] [-catalog FILE] [-xlsx OUT] [-pdf OUT]")
		return ExitInvalidInvocation
	}

	cat, err := catalog.Load(inv.CatalogPath)
	if err != nil {
		fmt.Fprintf(stderr, "vehiclefit: %v\n", err)
		return ExitInvalidInput
	}

	f, err := os.Open(inv.LoadsPath)
	if err != nil {
		fmt.Fprintf(stderr, "vehiclefit: %v\n", err)
		return ExitInvalidInput
	}
	result := importer.Import(inv.LoadsPath, f)
	f.Close()

	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}
	if !result.OK() {
		for _, e := range result.Errors {
			fmt.Fprintf(stderr, "error: %s\n", e)
		}
		if len(result.Errors) == 0 {
			fmt.Fprintf(stderr, "vehiclefit: %v\n", domain.ErrNoLoads)
		}
		return ExitInvalidInput
	}
	for i, item := range result.Loads {
		if err := cat.Admit(item); err != nil {
			fmt.Fprintf(stderr, "vehiclefit: load %d: %v\n", i+1, err)
			return ExitInvalidInput
		}
	}

	eval, err := algorithm.NewFeasibilityEngine().Compute(result.Loads, cat.Vehicles(), inv.Vehicles)
	if err != nil {
		fmt.Fprintf(stderr, "vehiclefit: %v\n", err)
		var noVehicle *domain.NoFeasibleVehicleError
		if errors.As(err, &noVehicle) {
			return ExitNoVehicle
		}
		return ExitInvalidInput
	}

	printEvaluation(stdout, eval)

	if inv.XLSXPath != "" {
		if err := writeFile(inv.XLSXPath, func(w io.Writer) error { return report.WriteExcel(w, eval) }); err != nil {
			fmt.Fprintf(stderr, "vehiclefit: %v\n", err)
			return ExitInternalError
		}
		fmt.Fprintf(stdout, "XLSX report written to %s\n", inv.XLSXPath)
	}
	if inv.PDFPath != "" {
		if err := writeFile(inv.PDFPath, func(w io.Writer) error { return report.WritePDF(w, eval) }); err != nil {
			fmt.Fprintf(stderr, "vehiclefit: %v\n", err)
			return ExitInternalError
		}
		fmt.Fprintf(stdout, "PDF report written to %s\n", inv.PDFPath)
	}
	return ExitSuccess
}

func printEvaluation(w io.Writer, eval *domain.Evaluation) {
	t := eval.Totals
	fmt.Fprintf(w, "%d units, %.2f kg, %.3f m³ (largest item %.2f x %.2f x %.2f m)\n\n",
		t.Quantity, t.WeightKg, t.VolumeM3, t.MaxLengthM, t.MaxWidthM, t.MaxHeightM)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tVEHICLE\tVOLUME %\tWEIGHT %\tVIABILITY\tUNITS\tNOTE")
	for i, r := range eval.Results {
		name := r.Vehicle
		if r.Recommended {
			name += " *"
		}
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\t%d/%d\t%s\n",
			i+1, name, r.VolumeUtilizationPct, r.WeightUtilizationPct, r.Viability,
			r.UnitsThatFit, r.TotalQuantity, r.Note)
	}
	tw.Flush()

	if len(eval.Rejections) > 0 {
		fmt.Fprintf(w, "\n%d vehicle(s) rejected\n", len(eval.Rejections))
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
