package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"course-payments/config"
	"course-payments/models"

	"github.com/jung-kurt/gofpdf"
)

// GenerateReceipt creates a PDF receipt for a granted entitlement and returns
// the path of the written file. The caller owns the file and should remove it
// once sent.
func GenerateReceipt(ent models.Entitlement) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Payment Receipt")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(40, 10, fmt.Sprintf("Course: %s", ent.CourseID))
	pdf.Ln(12)
	pdf.Cell(40, 10, fmt.Sprintf("Payment ID: %s", ent.PaymentID))
	pdf.Ln(12)
	if ent.OrderID != "" {
		pdf.Cell(40, 10, fmt.Sprintf("Order ID: %s", ent.OrderID))
		pdf.Ln(12)
	}
	pdf.Cell(40, 10, fmt.Sprintf("Currency: %s", config.AppConfig.Currency))
	pdf.Ln(12)
	pdf.Cell(40, 10, fmt.Sprintf("Date: %s", time.Now().UTC().Format("2006-01-02 15:04")))
	pdf.Ln(12)
	pdf.Cell(40, 10, "Thank you for your purchase.")

	fileName := filepath.Join(os.TempDir(), fmt.Sprintf("receipt_%s.pdf", ent.PaymentID))
	if err := pdf.OutputFileAndClose(fileName); err != nil {
		return "", fmt.Errorf("error generating receipt PDF: %w", err)
	}

	return fileName, nil
}
