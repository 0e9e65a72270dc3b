package admin

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pehlione.com/catalog/internal/http/middleware"
	"pehlione.com/catalog/internal/modules/variants"
	"pehlione.com/catalog/internal/shared/apperr"
)

type sectionsRequest struct {
	Sections []variants.OptionSection `json:"sections" binding:"required"`
}

func (h *VariantsHandler) SetSections(c *gin.Context) {
	var req sectionsRequest
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(e *variants.Editor) error {
		e.SetSections(req.Sections)
		return nil
	})
}

func (h *VariantsHandler) AddSection(c *gin.Context) {
	h.mutate(c, func(e *variants.Editor) error {
		e.AddSection()
		return nil
	})
}

func (h *VariantsHandler) AddOption(c *gin.Context) {
	section, ok := paramIndex(c, "section")
	if !ok {
		return
	}
	h.mutate(c, func(e *variants.Editor) error {
		return e.AddOption(section)
	})
}

type editOptionRequest struct {
	OptionName  *string `json:"option_name" binding:"omitempty,max=64"`
	ValuesInput *string `json:"values_input" binding:"omitempty,max=2000"`
}

// EditOption handles both the name field and every keystroke in the chip
// input; values_input is the raw buffer.
func (h *VariantsHandler) EditOption(c *gin.Context) {
	ref, ok := optionRef(c)
	if !ok {
		return
	}
	var req editOptionRequest
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(e *variants.Editor) error {
		if req.OptionName != nil {
			if err := e.SetOptionName(ref, *req.OptionName); err != nil {
				return err
			}
		}
		if req.ValuesInput != nil {
			return e.SetValuesInput(ref, *req.ValuesInput)
		}
		return nil
	})
}

func (h *VariantsHandler) RemoveOption(c *gin.Context) {
	ref, ok := optionRef(c)
	if !ok {
		return
	}
	h.mutate(c, func(e *variants.Editor) error {
		return e.RemoveOption(ref)
	})
}

type chipRequest struct {
	Action string `json:"action" binding:"required,oneof=commit backspace remove"`
	Value  string `json:"value" binding:"required_if=Action remove"`
}

// Chip applies Enter (commit), Backspace on an empty input, or a chip's
// remove button.
func (h *VariantsHandler) Chip(c *gin.Context) {
	ref, ok := optionRef(c)
	if !ok {
		return
	}
	var req chipRequest
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(e *variants.Editor) error {
		switch req.Action {
		case "commit":
			return e.CommitChip(ref)
		case "backspace":
			return e.Backspace(ref)
		default:
			return e.RemoveChip(ref, req.Value)
		}
	})
}

func (h *VariantsHandler) UpdateVariant(c *gin.Context) {
	index, ok := paramIndex(c, "index")
	if !ok {
		return
	}
	var req variants.VariantPatch
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(e *variants.Editor) error {
		return e.UpdateVariant(index, req)
	})
}

func (h *VariantsHandler) SetVariantImages(c *gin.Context) {
	index, ok := paramIndex(c, "index")
	if !ok {
		return
	}
	images, ok := h.readImages(c)
	if !ok {
		return
	}
	h.mutate(c, func(e *variants.Editor) error {
		return e.SetVariantImages(index, images)
	})
}

// SetGroupImages writes the images to every variant of the group in one
// state change.
func (h *VariantsHandler) SetGroupImages(c *gin.Context) {
	group := c.Param("group")
	images, ok := h.readImages(c)
	if !ok {
		return
	}
	var touched int
	h.mutateWith(c, func(e *variants.Editor) error {
		touched = e.SetGroupImages(group, images)
		return nil
	}, func(r *editorResponse) { r.Touched = &touched })
}

type reorderRequest struct {
	Kind string `json:"kind" binding:"required,oneof=option section variant"`
	From int    `json:"from" binding:"gte=0"`
	To   int    `json:"to" binding:"gte=0"`
	// Section and ToSection address option moves; ToSection defaults to Section.
	Section   int  `json:"section" binding:"gte=0"`
	ToSection *int `json:"to_section" binding:"omitempty,gte=0"`
}

func (h *VariantsHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(e *variants.Editor) error {
		switch req.Kind {
		case "option":
			to := req.Section
			if req.ToSection != nil {
				to = *req.ToSection
			}
			e.MoveOption(
				variants.OptionRef{Section: req.Section, Option: req.From},
				variants.OptionRef{Section: to, Option: req.To},
			)
		case "section":
			e.MoveSection(req.From, req.To)
		default:
			e.MoveVariant(req.From, req.To)
		}
		return nil
	})
}

type groupByRequest struct {
	GroupBy string `json:"group_by" binding:"max=64"`
}

func (h *VariantsHandler) SetGroupBy(c *gin.Context) {
	var req groupByRequest
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(e *variants.Editor) error {
		return e.SetGroupBy(req.GroupBy)
	})
}

type searchRequest struct {
	Q string `json:"q" binding:"max=200"`
}

func (h *VariantsHandler) SetSearch(c *gin.Context) {
	var req searchRequest
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(e *variants.Editor) error {
		e.SetSearch(req.Q)
		return nil
	})
}

func (h *VariantsHandler) ToggleGroup(c *gin.Context) {
	group := c.Param("group")
	h.mutate(c, func(e *variants.Editor) error {
		e.ToggleGroup(group)
		return nil
	})
}

func (h *VariantsHandler) FillSKUs(c *gin.Context) {
	h.mutate(c, func(e *variants.Editor) error {
		e.FillSKUs()
		return nil
	})
}

type imagesRequest struct {
	URLs []string `json:"urls" binding:"dive,required,url"`
}

// readImages accepts either {"urls": [...]} or a multipart form whose
// "images" files are staged on disk until submit.
func (h *VariantsHandler) readImages(c *gin.Context) ([]variants.Image, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req imagesRequest
		if !bind(c, &req) {
			return nil, false
		}
		out := make([]variants.Image, 0, len(req.URLs))
		for _, u := range req.URLs {
			out = append(out, variants.URLImage(u))
		}
		return out, true
	}

	form, err := c.MultipartForm()
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("Dosyalar okunamadı.", map[string]string{"images": "Geçersiz yükleme."}).WithErr(err))
		return nil, false
	}
	files := form.File["images"]
	if len(files) > variants.MaxImages {
		files = files[:variants.MaxImages]
	}

	out := make([]variants.Image, 0, len(files))
	for _, fh := range files {
		ref, err := h.stage(c, fh)
		if err != nil {
			middleware.Fail(c, err)
			return nil, false
		}
		out = append(out, variants.Image{File: &ref})
	}
	return out, true
}

func (h *VariantsHandler) stage(c *gin.Context, fh *multipart.FileHeader) (variants.FileRef, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".gif":
	default:
		return variants.FileRef{}, apperr.InvalidErr("Desteklenmeyen görsel türü.", map[string]string{"images": "png, jpg, webp veya gif yükleyin."})
	}
	if err := os.MkdirAll(h.Staging, 0o755); err != nil {
		return variants.FileRef{}, apperr.Wrap(err)
	}
	dst := filepath.Join(h.Staging, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return variants.FileRef{}, apperr.Wrap(err)
	}
	return variants.FileRef{
		Path:        dst,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

func optionRef(c *gin.Context) (variants.OptionRef, bool) {
	section, ok := paramIndex(c, "section")
	if !ok {
		return variants.OptionRef{}, false
	}
	option, ok := paramIndex(c, "option")
	if !ok {
		return variants.OptionRef{}, false
	}
	return variants.OptionRef{Section: section, Option: option}, true
}
