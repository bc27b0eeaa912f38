package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/config"
	"github.com/yockii/parish_tools/pkg/docgen"
	"github.com/yockii/parish_tools/pkg/htmlgen"
	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/pdfgen"
	"github.com/yockii/parish_tools/pkg/util"
)

func newRenderCmd() *cobra.Command {
	var (
		format    string
		output    string
		locale    string
		autoPrint bool
	)
	cmd := &cobra.Command{
		Use:   "render <bundle.json>",
		Short: "Render a bundle to html, docx, pdf or txt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			b, err := loadBundle(args[0])
			if err != nil {
				return err
			}
			if locale == "" {
				locale = config.GetString("render.locale")
			}

			unresolved := 0
			compiler := &liturgy.Compiler{
				Formatter:    liturgy.NewFormatter(locale),
				OnUnresolved: func(liturgy.Token) { unresolved++ },
			}
			doc := compiler.Assemble(b.script, b.fields, liturgy.BagFromFields(b.fields, b.parish))

			data, err := renderDocument(format, doc, service.TypographyFromConfig(), autoPrint)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "." + format
			}
			if err := util.SaveFile(output, data); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, %d unresolved placeholders)\n", output, len(data), unresolved)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", service.FormatPDF, "output format: html, docx, pdf or txt")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: bundle name with the format extension)")
	cmd.Flags().StringVar(&locale, "locale", "", "locale for dates and numbers (default: render.locale)")
	cmd.Flags().BoolVar(&autoPrint, "print", false, "html only: open the print dialog when the page loads")
	return cmd
}

func renderDocument(format string, doc liturgy.Document, typo liturgy.Typography, autoPrint bool) ([]byte, error) {
	switch format {
	case service.FormatHTML:
		return htmlgen.NewRenderer(typo).RenderPage(doc, autoPrint)
	case service.FormatDOCX:
		return docgen.NewWordRenderer(typo).Render(doc)
	case service.FormatPDF:
		return pdfgen.NewPDFRenderer(typo).Render(doc)
	case service.FormatTXT:
		return htmlgen.RenderText(doc), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <bundle.json>",
		Short: "List placeholders that can never resolve against the bundle's field definitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBundle(args[0])
			if err != nil {
				return err
			}
			issues := liturgy.Lint(b.script, b.defs)
			out := cmd.OutOrStdout()
			for _, issue := range issues {
				name := issue.SectionName
				if name == "" {
					name = "(untitled)"
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", name, issue.Token, issue.Reason)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d placeholder issue(s)", len(issues))
			}
			return nil
		},
	}
}
