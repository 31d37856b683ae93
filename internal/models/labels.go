package models

// Label is the presentation of a category code.
type Label struct {
	Text       string `json:"text"`
	Color      string `json:"color"`
	Background string `json:"background"`
}

// LabelTable maps category codes of one kind to labels.
type LabelTable map[string]Label

// DefaultLabel is used for codes a table does not know.
var DefaultLabel = Label{Text: "Lainnya", Color: "#374151", Background: "#F3F4F6"}

// Lookup returns the label for code, or DefaultLabel.
func (t LabelTable) Lookup(code string) Label {
	if l, ok := t[code]; ok {
		return l
	}
	return DefaultLabel
}

var StaffCategories = LabelTable{
	"leadership":     {Text: "Pimpinan", Color: "#1E40AF", Background: "#DBEAFE"},
	"teacher":        {Text: "Guru", Color: "#166534", Background: "#DCFCE7"},
	"administration": {Text: "Tata Usaha", Color: "#92400E", Background: "#FEF3C7"},
	"support":        {Text: "Tenaga Pendukung", Color: "#6B21A8", Background: "#F3E8FF"},
}

var FacilityCategories = LabelTable{
	"academic":   {Text: "Akademik", Color: "#1E40AF", Background: "#DBEAFE"},
	"laboratory": {Text: "Laboratorium", Color: "#0F766E", Background: "#CCFBF1"},
	"sports":     {Text: "Olahraga", Color: "#166534", Background: "#DCFCE7"},
	"worship":    {Text: "Ibadah", Color: "#92400E", Background: "#FEF3C7"},
	"support":    {Text: "Penunjang", Color: "#6B21A8", Background: "#F3E8FF"},
}

var ExtraCategories = LabelTable{
	"sports":     {Text: "Olahraga", Color: "#166534", Background: "#DCFCE7"},
	"arts":       {Text: "Seni", Color: "#9D174D", Background: "#FCE7F3"},
	"academic":   {Text: "Akademik", Color: "#1E40AF", Background: "#DBEAFE"},
	"religious":  {Text: "Keagamaan", Color: "#92400E", Background: "#FEF3C7"},
	"scouting":   {Text: "Kepramukaan", Color: "#3F6212", Background: "#ECFCCB"},
	"technology": {Text: "Teknologi", Color: "#0F766E", Background: "#CCFBF1"},
}

var AchievementCategories = LabelTable{
	"academic":  {Text: "Akademik", Color: "#1E40AF", Background: "#DBEAFE"},
	"sports":    {Text: "Olahraga", Color: "#166534", Background: "#DCFCE7"},
	"arts":      {Text: "Seni", Color: "#9D174D", Background: "#FCE7F3"},
	"religious": {Text: "Keagamaan", Color: "#92400E", Background: "#FEF3C7"},
	"school":    {Text: "Sekolah", Color: "#6B21A8", Background: "#F3E8FF"},
}

var AchievementLevels = LabelTable{
	"school":        {Text: "Sekolah", Color: "#374151", Background: "#F3F4F6"},
	"district":      {Text: "Kabupaten/Kota", Color: "#1E40AF", Background: "#DBEAFE"},
	"province":      {Text: "Provinsi", Color: "#166534", Background: "#DCFCE7"},
	"national":      {Text: "Nasional", Color: "#92400E", Background: "#FEF3C7"},
	"international": {Text: "Internasional", Color: "#991B1B", Background: "#FEE2E2"},
}

var AlumniCategories = LabelTable{
	"university":   {Text: "Perguruan Tinggi", Color: "#1E40AF", Background: "#DBEAFE"},
	"professional": {Text: "Profesional", Color: "#166534", Background: "#DCFCE7"},
	"entrepreneur": {Text: "Wirausaha", Color: "#92400E", Background: "#FEF3C7"},
	"public":       {Text: "Abdi Negara", Color: "#6B21A8", Background: "#F3E8FF"},
}
