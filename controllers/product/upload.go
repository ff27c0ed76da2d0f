package productControllers

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/souqly/souqly-api/middleware"
)

const thumbWidth = 300

// UploadDir is where product images land; main serves it statically.
func UploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// POST /seller/products/upload-image
//
// Stores the original and a width-capped thumbnail next to it, returning
// both URLs.
func UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.CurrentUserID(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only jpg and png images are supported"})
			return
		}

		if err := os.MkdirAll(UploadDir(), 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
			return
		}

		name := uuid.NewString() + ext
		dest := filepath.Join(UploadDir(), name)
		if err := c.SaveUploadedFile(fileHeader, dest); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}

		thumbName := "thumb_" + name
		if err := writeThumbnail(dest, filepath.Join(UploadDir(), thumbName), ext); err != nil {
			// The original is usable even if thumbnailing fails.
			c.JSON(http.StatusOK, gin.H{
				"url":     "/uploads/" + name,
				"warning": "thumbnail generation failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"url":       "/uploads/" + name,
			"thumbnail": "/uploads/" + thumbName,
		})
	}
}

func writeThumbnail(srcPath, destPath, ext string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	var img image.Image
	switch ext {
	case ".png":
		img, err = png.Decode(in)
	default:
		img, err = jpeg.Decode(in)
	}
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	thumb := resize.Resize(thumbWidth, 0, img, resize.Lanczos3)

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if ext == ".png" {
		return png.Encode(out, thumb)
	}
	return jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85})
}
