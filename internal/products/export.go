package products

import (
	"context"
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"ID", "Title", "Description", "Category", "Price", "Status", "ImageURL", "CreatedAt", "UpdatedAt",
}

// ExportBySeller writes the seller's listings to w as an .xlsx workbook with
// a single "Listings" sheet.
func (s *Service) ExportBySeller(ctx context.Context, sellerID string, w io.Writer) error {
	listings, err := s.ListBySeller(ctx, sellerID)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Listings")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, p := range listings {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Title)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(string(p.Status))
		image := ""
		if p.ImageURL != nil {
			image = *p.ImageURL
		}
		row.AddCell().SetValue(image)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
