package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(translate func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = translate
	}
}

// WithVersion sets the version shown in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter. Without a translator
// labels are left in English.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
		version:   "dev",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Keying Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	// Results
	f.section(&b, "Results")
	f.row(&b, "State", s.Outcome.State)
	if s.Outcome.Failed() {
		f.row(&b, "Failed Stage", s.Outcome.FailedStage)
		f.row(&b, "Error", s.Outcome.Error)
	}
	b.WriteString("\n")

	// Source
	f.section(&b, "Source")
	f.row(&b, "Input", s.Source.Path)
	f.row(&b, "Container", orNone(t, s.Source.Format))
	f.row(&b, "Codec", orNone(t, s.Source.Codec))
	f.row(&b, "Decoder", orNone(t, s.Source.Decoder))
	f.row(&b, "Packets Read", fmt.Sprintf("%d", s.Source.PacketsRead))
	if s.Frame.Width > 0 {
		f.row(&b, "Frame Size", fmt.Sprintf("%dx%d", s.Frame.Width, s.Frame.Height))
	}
	f.row(&b, "Decoded Format", orNone(t, s.Frame.DecodedFormat))
	b.WriteString("\n")

	// Settings
	f.section(&b, "Settings")
	f.row(&b, "Pixel Format", s.Key.PixelFormat)
	f.row(&b, "Key Color", s.Key.Color)
	f.row(&b, "Similarity", fmt.Sprintf("%g", s.Key.Similarity))
	f.row(&b, "Blend", fmt.Sprintf("%g", s.Key.Blend))
	yuv := t("No")
	if s.Key.YUV {
		yuv = t("Yes")
	}
	f.row(&b, "Color Given As YUV", yuv)
	b.WriteString("\n")

	// Output
	f.section(&b, "Output")
	f.row(&b, "Output", s.Output.Path)
	f.row(&b, "Keyed Format", orNone(t, s.Frame.KeyedFormat))
	f.row(&b, "Bytes Written", formatBytes(s.Output.BytesWritten))
	b.WriteString("\n")

	if len(s.Output.Planes) > 0 {
		fmt.Fprintf(&b, "### %s\n\n", t("Planes"))
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", t("Plane"), t("Stride"), t("Rows"), t("Bytes"))
		b.WriteString("|---:|---:|---:|---:|\n")
		for _, p := range s.Output.Planes {
			fmt.Fprintf(&b, "| %d | %d | %d | %d |\n", p.Index, p.Stride, p.Rows, p.Bytes)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n%s chromakey %s\n", t("Generated by"), f.version)
	return b.String()
}

func (f *MarkdownFormatter) section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "## %s\n\n", f.translate(title))
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|------|-------|\n")
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate(label), escapeCell(value))
}

func orNone(t func(string) string, s string) string {
	if s == "" {
		return t("None")
	}
	return s
}

// escapeCell keeps paths and error text from breaking the table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
