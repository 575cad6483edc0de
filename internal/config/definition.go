package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/muurk/tablekit/internal/logging"
	"github.com/muurk/tablekit/internal/table"
)

//go:embed sample.yaml
var sampleDefinition []byte

// Definition is a YAML description of a table: defaults for every row,
// sections, rows and what tapping them does.
//
//	title: Settings
//	index_section: 1
//	defaults:
//	  accessory: disclosure
//	sections:
//	  - title: General
//	    rows:
//	      - title: Wi-Fi
//	        preference: {key: wifi, checked: "On", unchecked: "Off"}
type Definition struct {
	Title        string       `yaml:"title,omitempty"`
	Locale       string       `yaml:"locale,omitempty"`
	IndexSection *int         `yaml:"index_section,omitempty"`
	Defaults     AttributeDef `yaml:"defaults,omitempty"`
	Sections     []SectionDef `yaml:"sections"`
}

// SectionDef describes one section.
type SectionDef struct {
	Title        string       `yaml:"title,omitempty"`
	HeaderHeight *float64     `yaml:"header_height,omitempty"`
	FooterHeight *float64     `yaml:"footer_height,omitempty"`
	Defaults     AttributeDef `yaml:"defaults,omitempty"`
	Rows         []RowDef     `yaml:"rows"`
}

// RowDef describes one row and its action.
type RowDef struct {
	AttributeDef `yaml:",inline"`

	// Preference binds the row's checkmark to a stored boolean.
	Preference *PreferenceDef `yaml:"preference,omitempty"`
	// Deletable lets the user delete the row.
	Deletable bool `yaml:"deletable,omitempty"`
	// TogglesSection shows or hides another section when tapped.
	TogglesSection *int `yaml:"toggles_section,omitempty"`
	// Info is carried as the row's custom info.
	Info string `yaml:"info,omitempty"`
}

// PreferenceDef binds a row to a preference key.
type PreferenceDef struct {
	Key           string  `yaml:"key"`
	Checked       *string `yaml:"checked,omitempty"`
	Unchecked     *string `yaml:"unchecked,omitempty"`
	ShowsForFalse bool    `yaml:"shows_for_false,omitempty"`
}

// AttributeDef mirrors table.Attributes with YAML-friendly names. Enum
// values use the names printed by the table package's String methods.
type AttributeDef struct {
	Title              *string  `yaml:"title,omitempty"`
	Subtitle           *string  `yaml:"subtitle,omitempty"`
	TitleColor         *string  `yaml:"title_color,omitempty"`
	SubtitleColor      *string  `yaml:"subtitle_color,omitempty"`
	BackgroundColor    *string  `yaml:"background_color,omitempty"`
	TintColor          *string  `yaml:"tint_color,omitempty"`
	Image              *string  `yaml:"image,omitempty"`
	ImageColor         *string  `yaml:"image_color,omitempty"`
	TintChevrons       *bool    `yaml:"tint_chevrons,omitempty"`
	Style              *string  `yaml:"style,omitempty"`
	Selection          *string  `yaml:"selection,omitempty"`
	Accessory          *string  `yaml:"accessory,omitempty"`
	Editing            *string  `yaml:"editing,omitempty"`
	RowHeight          *float64 `yaml:"row_height,omitempty"`
	EstimatedRowHeight *float64 `yaml:"estimated_row_height,omitempty"`
	AutoDeselect       *bool    `yaml:"auto_deselect,omitempty"`
	ReuseIdentifier    *string  `yaml:"reuse_identifier,omitempty"`
	Tag                *string  `yaml:"tag,omitempty"`
	Template           *string  `yaml:"template,omitempty"`
	Hidden             bool     `yaml:"hidden,omitempty"`
}

// SampleDefinition returns the built-in demo table definition.
func SampleDefinition() (*Definition, error) {
	return ParseDefinition(sampleDefinition)
}

// LoadDefinition reads and validates a definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}

	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// ParseDefinition parses and validates a YAML definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate reports every problem in the definition at once.
func (d *Definition) Validate() error {
	var errs []error

	if d.Locale != "" {
		if _, err := language.Parse(d.Locale); err != nil {
			errs = append(errs, fmt.Errorf("locale: %w", err))
		}
	}

	if d.IndexSection != nil && !d.hasSection(*d.IndexSection) {
		errs = append(errs, fmt.Errorf("index_section: no section %d", *d.IndexSection))
	}

	if err := d.Defaults.apply(&table.Attributes{}); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}

	for si, s := range d.Sections {
		if err := s.Defaults.apply(&table.Attributes{}); err != nil {
			errs = append(errs, fmt.Errorf("section %d defaults: %w", si, err))
		}

		for ri, r := range s.Rows {
			for _, err := range d.validateRow(r) {
				errs = append(errs, fmt.Errorf("section %d row %d: %w", si, ri, err))
			}
		}
	}

	return errors.Join(errs...)
}

func (d *Definition) validateRow(r RowDef) []error {
	var errs []error

	if err := r.AttributeDef.apply(&table.Attributes{}); err != nil {
		errs = append(errs, err)
	}

	if p := r.Preference; p != nil {
		if p.Key == "" {
			errs = append(errs, errors.New("preference key cannot be empty"))
		}
		if (p.Checked == nil) != (p.Unchecked == nil) {
			errs = append(errs, errors.New("preference needs both checked and unchecked subtitles, or neither"))
		}
	}

	if r.TogglesSection != nil && !d.hasSection(*r.TogglesSection) {
		errs = append(errs, fmt.Errorf("toggles_section: no section %d", *r.TogglesSection))
	}

	return errs
}

func (d *Definition) hasSection(i int) bool {
	return i >= 0 && i < len(d.Sections)
}

// RowCount returns the total number of rows across all sections.
func (d *Definition) RowCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Rows)
	}
	return n
}

// UsesPreferences reports whether any row is bound to a preference.
func (d *Definition) UsesPreferences() bool {
	for _, s := range d.Sections {
		for _, r := range s.Rows {
			if r.Preference != nil {
				return true
			}
		}
	}
	return false
}

// Build creates a table from the definition and publishes its sections.
// store backs preference rows and may be nil when none are used. opts are
// applied after the definition's own locale.
func (d *Definition) Build(store table.PreferenceStore, opts ...table.Option) (*table.Table, error) {
	if d.UsesPreferences() && store == nil {
		return nil, errors.New("definition binds preferences but no preference store was given")
	}

	var all []table.Option
	if d.Locale != "" {
		tag, err := language.Parse(d.Locale)
		if err != nil {
			return nil, fmt.Errorf("locale: %w", err)
		}
		all = append(all, table.WithLocale(tag))
	}
	all = append(all, opts...)

	t := table.New(all...)
	if err := d.Defaults.apply(t.Info().Attrs()); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	t.StartDataUpdate()
	for si, sd := range d.Sections {
		section := table.NewSection()
		if sd.Title != "" {
			section.Info.Title = table.Ptr(sd.Title)
		}
		section.Info.HeaderHeight = sd.HeaderHeight
		section.Info.FooterHeight = sd.FooterHeight
		if err := sd.Defaults.apply(section.Info.Attrs()); err != nil {
			return nil, fmt.Errorf("section %d defaults: %w", si, err)
		}
		t.AddSection(section)

		for ri, rd := range sd.Rows {
			row, err := rd.build(store)
			if err != nil {
				return nil, fmt.Errorf("section %d row %d: %w", si, ri, err)
			}
			t.AddRow(row)
		}
	}
	t.ApplyDataUpdate()

	if d.IndexSection != nil {
		t.SetSectionForIndex(table.Ptr(*d.IndexSection))
	}

	logging.Debug("Built table from definition",
		zap.String("title", d.Title),
		zap.Int("sections", len(d.Sections)),
		zap.Int("rows", d.RowCount()),
	)

	return t, nil
}

func (rd RowDef) build(store table.PreferenceStore) (*table.Row, error) {
	row := &table.Row{}
	if err := rd.AttributeDef.apply(row.Attrs()); err != nil {
		return nil, err
	}
	if rd.Info != "" {
		row.CustomInfo = rd.Info
	}

	if p := rd.Preference; p != nil {
		if (p.Checked == nil) != (p.Unchecked == nil) {
			return nil, errors.New("preference needs both checked and unchecked subtitles, or neither")
		}
		row.HandlePreference(store, p.Key, p.Checked, p.Unchecked, p.ShowsForFalse)
	}

	if rd.Deletable {
		row.EditingStyle = table.Ptr(table.EditingStyleDelete)
		row.DeleteHandler = table.SimpleDeleteHandler
	}

	if rd.TogglesSection != nil {
		target := *rd.TogglesSection
		row.ClickHandler = func(r *table.Row) {
			if t := r.Table(); t != nil {
				t.ShowSection(target, nil, true)
			}
		}
	}

	return row, nil
}

// apply copies the set fields into attrs.
func (a AttributeDef) apply(attrs *table.Attributes) error {
	attrs.Title = a.Title
	attrs.Subtitle = a.Subtitle
	attrs.TitleColor = color(a.TitleColor)
	attrs.SubtitleColor = color(a.SubtitleColor)
	attrs.BackgroundColor = color(a.BackgroundColor)
	attrs.TintColor = color(a.TintColor)
	attrs.LeftImageName = a.Image
	attrs.LeftImageColor = color(a.ImageColor)
	attrs.TintChevronDisclosures = a.TintChevrons
	attrs.RowHeight = a.RowHeight
	attrs.EstimatedRowHeight = a.EstimatedRowHeight
	attrs.AutoDeselect = a.AutoDeselect
	attrs.ReuseIdentifier = a.ReuseIdentifier
	attrs.ReuseTag = a.Tag
	if a.Template != nil {
		attrs.Template = table.Ptr(table.Template(*a.Template))
	}
	attrs.SetHidden(a.Hidden)

	var err error
	if attrs.Style, err = parseOptional(a.Style, table.ParseCellStyle); err != nil {
		return err
	}
	if attrs.SelectionStyle, err = parseOptional(a.Selection, table.ParseSelectionStyle); err != nil {
		return err
	}
	if attrs.AccessoryType, err = parseOptional(a.Accessory, table.ParseAccessoryType); err != nil {
		return err
	}
	if attrs.EditingStyle, err = parseOptional(a.Editing, table.ParseEditingStyle); err != nil {
		return err
	}
	return nil
}

func color(s *string) *table.Color {
	if s == nil {
		return nil
	}
	return table.Ptr(table.Color(*s))
}

func parseOptional[T any](s *string, parse func(string) (T, error)) (*T, error) {
	if s == nil {
		return nil, nil
	}
	v, err := parse(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
