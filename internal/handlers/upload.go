package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/KathiraveluLab/BHV/internal/service/upload"
	"github.com/labstack/echo/v4"
)

func UploadPage() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "upload.html", map[string]any{})
	}
}

func Upload(uploadService UploadService) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor := Actor(c)

		imageHeader, err := c.FormFile("image")
		if err != nil {
			if wantsJSON(c) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "image is required"})
			}
			return c.Render(http.StatusOK, "upload.html", map[string]any{"Error": "Image is required."})
		}
		image, err := imageHeader.Open()
		if err != nil {
			return fmt.Errorf("opening image upload: %w", err)
		}
		defer image.Close()

		params := &upload.CreateParams{
			UserID:      actor.ID,
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Image:       image,
		}

		if audioHeader, err := c.FormFile("audio"); err == nil {
			audio, err := audioHeader.Open()
			if err != nil {
				return fmt.Errorf("opening audio upload: %w", err)
			}
			defer audio.Close()
			params.Audio = audio
		}

		created, err := uploadService.Create(params)
		if err != nil {
			return err
		}

		if wantsJSON(c) {
			return c.JSON(http.StatusOK, created)
		}
		return c.Redirect(http.StatusFound, "/detail/"+string(created.ID))
	}
}

func Gallery(uploadService UploadService) echo.HandlerFunc {
	return func(c echo.Context) error {
		uploads, err := uploadService.Gallery()
		if err != nil {
			return err
		}
		if wantsJSON(c) {
			return c.JSON(http.StatusOK, uploads)
		}
		return c.Render(http.StatusOK, "gallery.html", map[string]any{"Uploads": uploads})
	}
}

func UploadDetail(uploadService UploadService) echo.HandlerFunc {
	return func(c echo.Context) error {
		record, err := uploadService.Fetch(model.UploadID(c.Param("uploadID")))
		if err != nil {
			if errors.Is(err, model.ErrorNotFound) {
				return c.Redirect(http.StatusFound, "/gallery")
			}
			return err
		}
		if wantsJSON(c) {
			return c.JSON(http.StatusOK, record)
		}
		return c.Render(http.StatusOK, "detail.html", map[string]any{"Upload": record})
	}
}

// ServeBlob streams a stored media file. The content type is sniffed
// from the leading bytes since the blob store holds raw content only.
func ServeBlob(uploadService UploadService) echo.HandlerFunc {
	return func(c echo.Context) error {
		blob, err := uploadService.OpenBlob(c.Param("ref"))
		if err != nil {
			if errors.Is(err, model.ErrorNotFound) {
				return echo.NewHTTPError(http.StatusNotFound)
			}
			return err
		}
		defer blob.Close()

		head := make([]byte, 512)
		n, err := blob.Read(head)
		if err != nil && n == 0 {
			return fmt.Errorf("reading blob: %w", err)
		}
		head = head[:n]

		contentType := http.DetectContentType(head)
		c.Response().Header().Set(echo.HeaderContentType, contentType)
		c.Response().WriteHeader(http.StatusOK)
		if _, err := c.Response().Write(head); err != nil {
			return err
		}
		_, err = io.Copy(c.Response(), blob)
		return err
	}
}
