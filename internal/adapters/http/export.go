package http

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// ExportItineraryHandler renders a stored itinerary as a printable PDF with a
// QR code linking back to the API resource.
func ExportItineraryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "itinerary id is required")
		}
		itinerary, err := deps.Itineraries.GetByID(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "itinerary not found")
			}
			return errInternal(c, err.Error())
		}

		pdfBytes, err := renderItineraryPDF(c.BaseURL(), itinerary)
		if err != nil {
			return errInternal(c, "failed to render PDF")
		}

		c.Set("Content-Type", "application/pdf")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=itinerary-%s.pdf`, itinerary.ID))
		return c.Send(pdfBytes)
	}
}

func renderItineraryPDF(baseURL string, it *domain.Itinerary) ([]byte, error) {
	qrPNG, err := qrcode.Encode(fmt.Sprintf("%s/v1/itineraries/%s", baseURL, it.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Eco Travel Itinerary")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("%s to %s", it.Source.City, it.Destination.City))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Distance: %.0f km over %d days", it.TotalDistanceKm, len(it.Days)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Created: %s", it.CreatedAt.Format("2006-01-02")))
	pdf.Ln(12)

	for _, day := range it.Days {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 9, fmt.Sprintf("Day %d  (%.4f, %.4f)", day.Day, day.Waypoint.Lat, day.Waypoint.Lon))
		pdf.Ln(9)

		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 7, fmt.Sprintf("Activity: %s", day.Activity.Name))
		pdf.Ln(6)
		pdf.Cell(0, 7, fmt.Sprintf("Lunch: %s", day.Lunch.Name))
		pdf.Ln(6)
		lodging := day.Lodging.Name
		if day.Lodging.EcoRating > 0 {
			lodging = fmt.Sprintf("%s (eco rating %d/5)", lodging, day.Lodging.EcoRating)
		}
		pdf.Cell(0, 7, fmt.Sprintf("Stay: %s", lodging))
		pdf.Ln(9)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 12, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
