package service

import (
	"github.com/vestrapos/vestra/internal/businesstype/domain"
	"gorm.io/datatypes"
)

// DefaultBusinessTypes returns the built-in retail verticals shipped with
// every install. InitDefaults skips any code that already exists.
func DefaultBusinessTypes() []domain.BusinessType {
	sizes := []string{"XS", "S", "M", "L", "XL", "XXL"}
	shoeSizes := []string{"36", "37", "38", "39", "40", "41", "42", "43", "44", "45"}
	colors := []string{"Black", "White", "Red", "Blue", "Green", "Yellow", "Brown", "Grey", "Navy", "Beige"}

	return []domain.BusinessType{
		{
			Code: "clothing",
			Name: "Clothing Store",
			CustomFields: datatypes.NewJSONSlice([]domain.CustomField{
				{Name: "size", Label: "Size", Type: "select", Options: sizes},
				{Name: "color", Label: "Color", Type: "select", Options: colors},
				{Name: "material", Label: "Material", Type: "text"},
				{Name: "brand", Label: "Brand", Type: "text"},
			}),
			Dropdowns: dropdownMap(map[string][]string{
				"size":     sizes,
				"color":    colors,
				"material": {"Cotton", "Polyester", "Linen", "Denim", "Silk", "Wool", "Rayon"},
			}),
		},
		{
			Code: "footwear",
			Name: "Footwear Store",
			CustomFields: datatypes.NewJSONSlice([]domain.CustomField{
				{Name: "size", Label: "Size", Type: "select", Options: shoeSizes},
				{Name: "color", Label: "Color", Type: "select", Options: colors},
				{Name: "brand", Label: "Brand", Type: "text"},
			}),
			Dropdowns: dropdownMap(map[string][]string{
				"size":  shoeSizes,
				"color": colors,
			}),
		},
		{
			Code: "accessories",
			Name: "Accessories Store",
			CustomFields: datatypes.NewJSONSlice([]domain.CustomField{
				{Name: "color", Label: "Color", Type: "select", Options: colors},
				{Name: "material", Label: "Material", Type: "text"},
				{Name: "brand", Label: "Brand", Type: "text"},
			}),
			Dropdowns: dropdownMap(map[string][]string{
				"color": colors,
			}),
		},
		{
			Code: "fabric",
			Name: "Fabric Store",
			CustomFields: datatypes.NewJSONSlice([]domain.CustomField{
				{Name: "material", Label: "Material", Type: "text"},
				{Name: "color", Label: "Color", Type: "select", Options: colors},
				{Name: "width", Label: "Width", Type: "number"},
			}),
			Dropdowns: dropdownMap(map[string][]string{
				"color":    colors,
				"material": {"Cotton", "Polyester", "Linen", "Silk", "Chiffon", "Velvet"},
			}),
		},
		{
			Code: "general",
			Name: "General Retail",
			CustomFields: datatypes.NewJSONSlice([]domain.CustomField{
				{Name: "brand", Label: "Brand", Type: "text"},
				{Name: "category", Label: "Category", Type: "text"},
			}),
			Dropdowns: dropdownMap(map[string][]string{}),
		},
	}
}
