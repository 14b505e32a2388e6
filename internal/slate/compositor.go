package slate

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"dailies/internal/config"
	"dailies/internal/logging"
	"dailies/internal/services"
	"dailies/internal/versionpath"
)

const stageName = "slate"

// Options controls slate layout and asset lookup.
type Options struct {
	TemplateNames   []string
	Typeface        string
	NotesTypeface   string
	FontSize        float64
	NotesFontSize   float64
	TextColor       string
	DatePosition    image.Point
	VersionPosition image.Point
	NamePosition    image.Point
	NotesPosition   image.Point
	Limits          NoteLimits
}

// OptionsFromConfig maps the [slate] and [paths] config sections.
func OptionsFromConfig(cfg *config.Config) Options {
	point := func(p config.Point) image.Point { return image.Pt(p.X, p.Y) }
	return Options{
		TemplateNames:   append([]string(nil), cfg.Slate.TemplateNames...),
		Typeface:        cfg.Paths.Typeface,
		NotesTypeface:   cfg.NotesTypeface(),
		FontSize:        cfg.Slate.FontSize,
		NotesFontSize:   cfg.Slate.NotesFontSize,
		TextColor:       cfg.Slate.TextColor,
		DatePosition:    point(cfg.Slate.DatePosition),
		VersionPosition: point(cfg.Slate.VersionPosition),
		NamePosition:    point(cfg.Slate.NamePosition),
		NotesPosition:   point(cfg.Slate.NotesPosition),
		Limits: NoteLimits{
			MaxNotes:  cfg.Slate.MaxNotes,
			MaxLength: cfg.Slate.MaxNoteLength,
		},
	}
}

// Compositor renders cover slates.
type Compositor struct {
	opts   Options
	now    func() time.Time
	logger *slog.Logger
}

// Option configures the compositor.
type Option func(*Compositor)

// WithClock overrides the date source (primarily for tests).
func WithClock(now func() time.Time) Option {
	return func(c *Compositor) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compositor) {
		c.logger = logging.NewComponentLogger(logger, "slate")
	}
}

// NewCompositor constructs a compositor.
func NewCompositor(opts Options, options ...Option) *Compositor {
	c := &Compositor{opts: opts, now: time.Now, logger: logging.NewNop()}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Result describes a composited slate.
type Result struct {
	Path     string
	Spec     Spec
	Template string
	Rejected []string
}

// Composite loads the template and typefaces, collects notes from src, and
// writes the slate to the version directory as frame 0000. Asset failures are
// reported before any note is requested or any file is written.
func (c *Compositor) Composite(vp versionpath.VersionPath, src NoteSource) (Result, error) {
	assets, err := c.loadAssets(vp.RootPath)
	if err != nil {
		return Result{}, err
	}
	defer assets.Close()

	notes, err := CollectNotes(src, c.opts.Limits)
	if err != nil {
		return Result{}, services.Wrap(services.ErrUsage, stageName, "collect notes", "note input failed", err)
	}
	for _, rejected := range notes.Rejected {
		logging.WarnWithContext(c.logger, "note rejected", "note_rejected",
			logging.String("note", rejected),
			logging.Int("max_note_length", c.opts.Limits.MaxLength),
			logging.Impact("note omitted from slate"),
			logging.Hint("shorten the note"),
		)
	}

	spec := NewSpec(vp, notes.Accepted, c.now())
	canvas := c.render(assets, spec)

	out := vp.SlateFrame()
	if err := writePNG(out, canvas); err != nil {
		return Result{}, services.Wrap(services.ErrFilesystem, stageName, "save slate", out, err)
	}
	c.logger.Info("slate composited",
		logging.Artifact(out),
		logging.String("template", assets.templatePath),
		logging.Int("notes_accepted", len(notes.Accepted)),
		logging.Int("notes_rejected", len(notes.Rejected)),
	)
	return Result{Path: out, Spec: spec, Template: assets.templatePath, Rejected: notes.Rejected}, nil
}

type assets struct {
	template     image.Image
	templatePath string
	large        font.Face
	small        font.Face
	color        color.RGBA
}

func (a *assets) Close() {
	if a.large != nil {
		_ = a.large.Close()
	}
	if a.small != nil && a.small != a.large {
		_ = a.small.Close()
	}
}

func (c *Compositor) loadAssets(rootPath string) (*assets, error) {
	tmplPath, err := FindTemplate(rootPath, c.opts.TemplateNames)
	if err != nil {
		return nil, err
	}
	tmpl, err := decodeImage(tmplPath)
	if err != nil {
		return nil, services.Wrap(services.ErrMissingAsset, stageName, "load template", "template unreadable", err)
	}
	textColor, err := ParseColor(c.opts.TextColor)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "text color", "", err)
	}

	large, err := loadFace(c.opts.Typeface, c.opts.FontSize)
	if err != nil {
		return nil, err
	}
	small, err := loadFace(c.opts.NotesTypeface, c.opts.NotesFontSize)
	if err != nil {
		_ = large.Close()
		return nil, err
	}
	return &assets{template: tmpl, templatePath: tmplPath, large: large, small: small, color: textColor}, nil
}

// FindTemplate returns the first existing template under rootPath.
func FindTemplate(rootPath string, names []string) (string, error) {
	for _, name := range names {
		candidate := filepath.Join(rootPath, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrMissingAsset, stageName, "load template",
		fmt.Sprintf("template not found in %s (looked for %s)", rootPath, strings.Join(names, ", ")), nil)
}

func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	return img, err
}

func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrMissingAsset, stageName, "load typeface", "font not found: "+path, nil)
		}
		return nil, services.Wrap(services.ErrMissingAsset, stageName, "load typeface", path, err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, services.Wrap(services.ErrMissingAsset, stageName, "parse typeface", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, services.Wrap(services.ErrMissingAsset, stageName, "size typeface", path, err)
	}
	return face, nil
}

func (c *Compositor) render(a *assets, spec Spec) *image.RGBA {
	bounds := a.template.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), a.template, bounds.Min, draw.Src)

	ink := image.NewUniform(a.color)
	drawText(canvas, ink, a.large, c.opts.DatePosition, spec.Date)
	drawText(canvas, ink, a.large, c.opts.VersionPosition, spec.Version)
	drawText(canvas, ink, a.large, c.opts.NamePosition, spec.Name)
	if text := spec.NotesText(); text != "" {
		drawText(canvas, ink, a.small, c.opts.NotesPosition, text)
	}
	return canvas
}

// drawText treats at as the top-left corner of the first line.
func drawText(dst draw.Image, src image.Image, face font.Face, at image.Point, text string) {
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	lineHeight := metrics.Height.Ceil()
	d := &font.Drawer{Dst: dst, Src: src, Face: face}
	for i, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		d.Dot = fixed.P(at.X, at.Y+ascent+i*lineHeight)
		d.DrawString(line)
	}
}

func writePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".slate-*.png")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
