package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildEntitlementReport writes all entitlement records into an xlsx workbook
// and returns the serialized bytes. Columns: user, course, payment id,
// order id, source, verified at.
func BuildEntitlementReport(ctx context.Context, store EntitlementStore) ([]byte, error) {
	ents, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	headers := []string{"User ID", "Course ID", "Paid", "Payment ID", "Order ID", "Source", "Verified At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, ent := range ents {
		values := []interface{}{
			ent.UserID,
			ent.CourseID,
			ent.Paid,
			ent.PaymentID,
			ent.OrderID,
			ent.Source,
			ent.VerifiedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing entitlement report: %w", err)
	}
	return buf.Bytes(), nil
}
