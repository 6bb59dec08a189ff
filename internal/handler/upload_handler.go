package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var allowedReceiptExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

type UploadHandler struct {
	uploadDir string
}

func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir}
}

// Receipt stores an uploaded receipt image under a random name and returns
// the public URL. OCR on the stored file happens client-side or through the
// suggestion endpoint; this handler only persists bytes.
// POST /api/v1/upload/receipt
func (h *UploadHandler) Receipt(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "No file uploaded"})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedReceiptExt[ext] {
		return c.Status(400).JSON(fiber.Map{"message": "Unsupported file type"})
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error storing file"})
	}

	name := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error storing file"})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "File uploaded successfully",
		"url":     fmt.Sprintf("/uploads/receipts/%s", name),
	})
}
