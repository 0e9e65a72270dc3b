package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pehlione.com/catalog/internal/modules/exports"
	"pehlione.com/catalog/internal/modules/variants"
)

// input is the document read by generate.
type input struct {
	ProductName string                      `json:"product_name"`
	GroupBy     *string                     `json:"group_by"`
	Search      string                      `json:"search"`
	Sections    []variants.OptionSection    `json:"sections"`
	Existing    []variants.VariantRecord    `json:"existing"`
	GroupImages map[string][]variants.Image `json:"group_images"`
}

type generateOptions struct {
	file      string
	out       string
	format    string
	groupBy   string
	search    string
	skus      bool
	skuPrefix string
}

var errNoAxes = errors.New("no option has both a name and a committed value")

func newGenerateCmd() *cobra.Command {
	var o generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the variant matrix for a set of option sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, o)
		},
	}
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "input JSON file, - for stdin (required)")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write output to this file instead of stdout")
	cmd.Flags().StringVar(&o.format, "format", "table", "output format: table, json, csv or xlsx")
	cmd.Flags().StringVar(&o.groupBy, "group-by", "", "group by this option instead of the first one")
	cmd.Flags().StringVar(&o.search, "search", "", "filter rows by name")
	cmd.Flags().BoolVar(&o.skus, "skus", false, "fill blank SKUs")
	cmd.Flags().StringVar(&o.skuPrefix, "sku-prefix", "", "SKU prefix (default: $SKU_PREFIX, then the product name)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runGenerate(cmd *cobra.Command, o generateOptions) error {
	in, err := readInput(cmd.InOrStdin(), o.file)
	if err != nil {
		return err
	}

	prefix := o.skuPrefix
	if prefix == "" {
		prefix = os.Getenv("SKU_PREFIX")
	}
	ed := variants.NewEditor(variants.State{
		ProductName: in.ProductName,
		Sections:    in.Sections,
		Variants:    in.Existing,
		GroupImages: in.GroupImages,
	}, variants.SKUGenerator{Prefix: prefix})

	if !ed.Generate() {
		return errNoAxes
	}

	groupBy := o.groupBy
	if groupBy == "" && in.GroupBy != nil {
		groupBy = *in.GroupBy
	}
	if cmd.Flags().Changed("group-by") || in.GroupBy != nil {
		if err := ed.SetGroupBy(groupBy); err != nil {
			return err
		}
	}

	search := o.search
	if search == "" {
		search = in.Search
	}
	ed.SetSearch(search)
	if o.skus {
		ed.FillSKUs()
	}

	w := cmd.OutOrStdout()
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	st := ed.State()
	switch o.format {
	case "table":
		return writeTable(w, ed.Layout(), st.Variants)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Variants []variants.VariantRecord `json:"variants"`
			GroupBy  string                   `json:"group_by"`
			Layout   variants.Layout          `json:"layout"`
		}{st.Variants, st.GroupBy, ed.Layout()})
	case "csv":
		return exports.WriteCSV(w, exports.Rows(st.Variants, st.GroupBy, st.GroupImages))
	case "xlsx":
		if o.out == "" {
			return errors.New("xlsx output needs --out")
		}
		return exports.WriteXLSX(w, exports.Rows(st.Variants, st.GroupBy, st.GroupImages))
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}
}

func readInput(stdin io.Reader, path string) (input, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return input{}, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return input{}, fmt.Errorf("decode input: %w", err)
	}
	return in, nil
}

func writeTable(w io.Writer, l variants.Layout, vs []variants.VariantRecord) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tVARIANT\tSKU\tPRICE\tSTOCK\tSTATUS")
	for _, r := range l.Rows {
		switch r.Kind {
		case variants.RowGroup:
			mark := "+"
			if r.Expanded {
				mark = "-"
			}
			fmt.Fprintf(tw, "%s\t%s (%d)\t\t\t%d\t\n", mark, r.Group, r.Count, r.TotalQty)
		case variants.RowVariant:
			v := vs[r.OriginalIndex]
			label := r.Label
			if r.Nested {
				label = "  " + label
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				r.OriginalIndex, label, v.SKU, v.OfferPrice, v.StockQuantity, v.StockStatus)
		}
	}
	return tw.Flush()
}
