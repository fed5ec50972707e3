package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	commonhttp "listing-predictor/internal/common/http"
	encodefeatures "listing-predictor/internal/listing/encode-features"
	"listing-predictor/pkg/artifact"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	layoutCmd := flag.NewFlagSet("layout", flag.ExitOnError)
	tableCmd := flag.NewFlagSet("table", flag.ExitOnError)

	validateModel := validateCmd.String("model", "configs/artifacts/model.json", "Path or URL of the model artifact")
	validateTable := validateCmd.String("coefficients", "configs/artifacts/attribute_weights.json", "Path or URL of the coefficient table")
	layoutModel := layoutCmd.String("model", "configs/artifacts/model.json", "Path or URL of the model artifact")
	tableModel := tableCmd.String("model", "configs/artifacts/model.json", "Path or URL of the model artifact")
	tableTitle := tableCmd.String("title", "", "Chart title stored in the table")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client := commonhttp.NewClient(15*time.Second, "artifact-check")

	var err error
	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		err = runValidate(ctx, os.Stdout, client, *validateModel, *validateTable)
	case "layout":
		layoutCmd.Parse(os.Args[2:])
		err = runLayout(ctx, os.Stdout, client, *layoutModel)
	case "table":
		tableCmd.Parse(os.Args[2:])
		err = runTable(ctx, os.Stdout, client, *tableModel, *tableTitle)
	case "help":
		help()
		return
	default:
		help()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runValidate loads both artifacts and checks the model against the encoder
// layout.
func runValidate(ctx context.Context, out io.Writer, client artifact.Doer, modelSrc, tableSrc string) error {
	model, err := artifact.LoadModel(ctx, modelSrc, client)
	if err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if model.Dimension() != encodefeatures.Dimension {
		return fmt.Errorf("model: %w: has %d coefficients, encoder produces %d",
			artifact.ErrDimensionMismatch, model.Dimension(), encodefeatures.Dimension)
	}

	expected := encodefeatures.FeatureNames()
	for i, name := range model.FeatureNames {
		if name != expected[i] {
			return fmt.Errorf("model: feature %d is %q, encoder has %q", i, name, expected[i])
		}
	}

	table, err := artifact.LoadCoefficientTable(ctx, tableSrc, client)
	if err != nil {
		return fmt.Errorf("coefficients: %w", err)
	}

	fmt.Fprintf(out, "Model %s (version %s): %d coefficients, intercept %g\n",
		displayName(model.Name), displayName(model.Version), model.Dimension(), model.Intercept)
	covered := 0
	for _, name := range model.FeatureNames {
		if _, ok := table.Lookup(name); ok {
			covered++
		}
	}
	fmt.Fprintf(out, "Coefficient table: %d attributes, covers %d of %d model features\n",
		len(table.Weights), covered, len(model.FeatureNames))
	fmt.Fprintln(out, "Artifacts are valid.")
	return nil
}

// runLayout prints each vector position with its feature name and weight.
func runLayout(ctx context.Context, out io.Writer, client artifact.Doer, modelSrc string) error {
	model, err := artifact.LoadModel(ctx, modelSrc, client)
	if err != nil {
		return fmt.Errorf("model: %w", err)
	}

	names := encodefeatures.FeatureNames()
	table := artifact.TableFromModel(model)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tFEATURE\tMODEL NAME\tCOEFFICIENT")
	for i, name := range names {
		modelName, coef := "-", "-"
		if i < len(table.Weights) {
			modelName = table.Weights[i].Attribute
			coef = fmt.Sprintf("%g", table.Weights[i].Weight)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, name, modelName, coef)
	}
	return w.Flush()
}

// runTable writes the coefficient table derived from the model as JSON.
func runTable(ctx context.Context, out io.Writer, client artifact.Doer, modelSrc, title string) error {
	model, err := artifact.LoadModel(ctx, modelSrc, client)
	if err != nil {
		return fmt.Errorf("model: %w", err)
	}

	table := artifact.TableFromModel(model)
	table.Title = title

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(table)
}

func displayName(s string) string {
	if s == "" {
		return "unnamed"
	}
	return s
}

func help() {
	fmt.Println("Usage: artifact-check <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  validate -model <src> -coefficients <src>   Check both artifacts against the encoder layout")
	fmt.Println("  layout   -model <src>                       Print feature positions next to model coefficients")
	fmt.Println("  table    -model <src> [-title <text>]       Print the coefficient table derived from the model")
}
