// Package catalog defines the immutable records a showroom dataset is made
// of and the schema naming the fields the browser treats specially.
package catalog

// Schema names the designated dataset fields. Field names are external and
// fixed by the dataset producer, so they are configuration rather than code.
type Schema struct {
	Name      string `yaml:"name" json:"name"`
	Price     string `yaml:"price" json:"price"`
	Color     string `yaml:"color" json:"color"`
	CarImage  string `yaml:"car_image" json:"car_image"`
	RimsImage string `yaml:"rims_image" json:"rims_image"`
	Rims      string `yaml:"rims" json:"rims"`
	Limited   string `yaml:"limited" json:"limited"`
	// CarAsset is the asset reference the thumbnails helper resolves into
	// CarImage. The browser displays it generically.
	CarAsset string `yaml:"car_asset" json:"car_asset"`
}

// DefaultSchema returns the field names used by the cars_combined dataset.
func DefaultSchema() Schema {
	return Schema{
		Name:      "CarName",
		Price:     "Cost",
		Color:     "Color",
		CarImage:  "CarImageUrl",
		RimsImage: "RimsUrl",
		Rims:      "Rims",
		Limited:   "Unobtainable",
		CarAsset:  "CarImage",
	}
}

// WithDefaults fills empty names from DefaultSchema.
func (s Schema) WithDefaults() Schema {
	d := DefaultSchema()
	if s.Name == "" {
		s.Name = d.Name
	}
	if s.Price == "" {
		s.Price = d.Price
	}
	if s.Color == "" {
		s.Color = d.Color
	}
	if s.CarImage == "" {
		s.CarImage = d.CarImage
	}
	if s.RimsImage == "" {
		s.RimsImage = d.RimsImage
	}
	if s.Rims == "" {
		s.Rims = d.Rims
	}
	if s.Limited == "" {
		s.Limited = d.Limited
	}
	if s.CarAsset == "" {
		s.CarAsset = d.CarAsset
	}
	return s
}
