package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rgonek/quill-md-converter/converter"
	"github.com/rgonek/quill-md-converter/document"
	"github.com/rgonek/quill-md-converter/resolver"
	"github.com/rgonek/quill-md-converter/store"
	"go.uber.org/zap"
)

// ConvertRequest is the body of POST /api/convert.
type ConvertRequest struct {
	HTML   string `json:"html"`
	Domain string `json:"domain,omitempty" validate:"omitempty,url"`
}

// ConvertResponse is the body returned by POST /api/convert.
type ConvertResponse struct {
	Markdown string              `json:"markdown"`
	Warnings []converter.Warning `json:"warnings"`
}

// RenderRequest is the body of POST /api/render.
type RenderRequest struct {
	Markdown string `json:"markdown"`
}

// PrepareFormulaRequest is the body of POST /api/prepare-formula.
type PrepareFormulaRequest struct {
	Latex string `json:"latex" validate:"required"`
}

// PrepareFormulaResponse is the body returned by POST /api/prepare-formula.
type PrepareFormulaResponse struct {
	Latex string               `json:"latex"`
	Kind  document.FormulaKind `json:"kind"`
}

var validate = validator.New()

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func (s *Server) convert(c *fiber.Ctx) error {
	var req ConvertRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	res, err := s.deps.Converter.ConvertWithContext(c.UserContext(), req.HTML, converter.ConvertOptions{Domain: req.Domain})
	if err != nil {
		return err
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []converter.Warning{}
	}
	return c.JSON(ConvertResponse{Markdown: res.Markdown, Warnings: warnings})
}

func (s *Server) render(c *fiber.Ctx) error {
	var req RenderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	if s.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RenderTimeout)
		defer cancel()
	}

	out, err := s.deps.Renderer.Render(ctx, req.Markdown)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %v", errUnresolved, err)
	}
	return c.JSON(out)
}

func (s *Server) prepareFormula(c *fiber.Ctx) error {
	var req PrepareFormulaRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	latex := document.PrepareFormula(req.Latex)
	if latex == "" {
		return fiber.NewError(fiber.StatusBadRequest, "formula is empty")
	}
	return c.JSON(PrepareFormulaResponse{
		Latex: latex,
		Kind:  document.ClassifyFormula(latex, s.deps.Converter.Config().BlockKeywords),
	})
}

func (s *Server) uploadID(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"uploadId": document.NewUploadID()})
}

func (s *Server) saveMarkdown(c *fiber.Ctx) error {
	var req store.SaveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	path := req.FilePath
	if path == "" {
		path = store.NewPath(s.deps.Now())
	}

	if err := s.deps.Store.Save(c.UserContext(), path, req.Markdown); err != nil {
		return err
	}
	s.log.Info("markdown saved", zap.String("path", path), zap.Int("bytes", len(req.Markdown)))
	return c.JSON(store.SaveResponse{FilePath: path})
}

func (s *Server) getMarkdown(c *fiber.Ctx) error {
	var req store.LoadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	md, err := s.deps.Store.Load(c.UserContext(), req.FilePath)
	if err != nil {
		return err
	}
	return c.JSON(store.LoadResponse{Markdown: md})
}

func (s *Server) getPublicURL(c *fiber.Ctx) error {
	var req resolver.PublicURLRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	url, err := s.deps.Resolver.Resolve(c.UserContext(), req.FilePath)
	if err != nil {
		return err
	}
	return c.JSON(resolver.PublicURLResponse{SignedURLs: []string{url}})
}

func (s *Server) serveAsset(c *fiber.Ctx) error {
	if s.deps.Assets == nil {
		return fiber.ErrNotFound
	}
	token := c.Params("token")
	if err := s.deps.Assets.Verify(token, c.Query("sig")); err != nil {
		return err
	}
	path, err := s.deps.Assets.Path(token)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read asset: %w", err)
	}
	if ext := filepath.Ext(path); ext != "" {
		c.Type(ext)
	}
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(data)
}
