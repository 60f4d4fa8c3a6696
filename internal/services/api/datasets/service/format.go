package service

import (
	"encoding/json"
	"mime"
	"strings"

	"profitscout/internal/core/artifact"
	perr "profitscout/internal/platform/errors"
	"profitscout/internal/services/api/datasets/domain"
	sigdomain "profitscout/internal/services/api/signals/domain"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	ctJSON     = "application/json"
	ctMarkdown = "text/markdown; charset=utf-8"
	ctText     = "text/plain; charset=utf-8"
	ctBinary   = "application/octet-stream"
)

// Artifact is a located artifact with its bytes. Markdown holds the md
// sibling when one was fetched
type Artifact struct {
	Ref      artifact.Ref
	Body     []byte
	Markdown []byte
}

// ContentType maps an artifact extension to its media type
func ContentType(ext string) string {
	switch ext {
	case "json":
		return ctJSON
	case "md":
		return ctMarkdown
	case "txt":
		return ctText
	}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		return ct
	}
	return ctBinary
}

// FormatArtifact renders an object-backed artifact. md needs a markdown
// artifact or sibling; nothing is converted between representations
func FormatArtifact(a Artifact, f domain.Format) (domain.Payload, error) {
	switch f {
	case domain.FormatRaw:
		return rawPayload(ContentType(a.Ref.Ext), a.Body), nil
	case domain.FormatMD:
		if a.Ref.Markdown() {
			return rawPayload(ctMarkdown, a.Body), nil
		}
		if a.Markdown != nil {
			return rawPayload(ctMarkdown, a.Markdown), nil
		}
		return domain.Payload{}, perr.UnsupportedFormatf("no markdown variant of %s", a.Ref.Path)
	case domain.FormatJSON:
		env, err := Envelope(a.Ref, a.Body)
		if err != nil {
			return domain.Payload{}, err
		}
		return domain.Payload{ContentType: ctJSON, JSON: env}, nil
	}
	return domain.Payload{}, perr.UnsupportedFormatf("format %q not supported", f)
}

// FormatRows renders a signal row set; row sets are JSON only
func FormatRows(set sigdomain.SignalSet, f domain.Format) (domain.Payload, error) {
	if f != domain.FormatJSON {
		return domain.Payload{}, perr.UnsupportedFormatf("query-backed dataset %s supports json only", set.Dataset)
	}
	return domain.Payload{ContentType: ctJSON, JSON: set}, nil
}

// Envelope wraps the artifact bytes. JSON artifacts pass through untouched
// in data; text artifacts go to summary_md with their first heading as title
func Envelope(ref artifact.Ref, body []byte) (domain.ItemEnvelope, error) {
	env := domain.ItemEnvelope{
		Dataset:     ref.Dataset,
		ID:          ref.ID,
		Artifact:    ref.Path,
		ContentType: ContentType(ref.Ext),
		Source:      domain.Source,
		Disclaimer:  domain.Disclaimer,
	}
	if d := ref.AsOf(); d != "" {
		env.AsOf = d + "T00:00:00Z"
	}
	switch ref.Ext {
	case "json":
		if !json.Valid(body) {
			return domain.ItemEnvelope{}, perr.Internalf("artifact %s is not valid json", ref.Path)
		}
		env.Data = json.RawMessage(body)
	case "md", "txt":
		env.SummaryMD = string(body)
		env.Title = Title(body)
	}
	return env, nil
}

// Title returns the text of the first markdown heading, or empty
func Title(src []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))
	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		inline(&b, h, src)
		return ast.WalkStop, nil
	})
	return strings.TrimSpace(b.String())
}

func inline(b *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			inline(b, c, src)
		}
	}
}

func rawPayload(ct string, body []byte) domain.Payload {
	if body == nil {
		body = []byte{}
	}
	return domain.Payload{ContentType: ct, Raw: body}
}
