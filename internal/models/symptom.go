package models

const (
	SymptomCategoryPain      = "Pain"
	SymptomCategoryPhysical  = "Physical"
	SymptomCategoryEmotional = "Emotional"
)

type Symptom struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Category string `gorm:"column:category" json:"category"`
	IsActive bool   `gorm:"column:is_active;default:true" json:"is_active"`
}

func (Symptom) TableName() string {
	return "symptoms"
}

// DailySymptom links a DailyLog to a Symptom. The pair is unique.
type DailySymptom struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	DailyLogID uint `gorm:"column:daily_log_id;not null" json:"daily_log_id"`
	SymptomID  uint `gorm:"column:symptom_id;not null" json:"symptom_id"`
	Severity   *int `gorm:"column:severity" json:"severity"`
}

func (DailySymptom) TableName() string {
	return "daily_symptoms"
}

type CatalogSymptom struct {
	Name     string
	Category string
}

func DefaultSymptomCatalog() []CatalogSymptom {
	return []CatalogSymptom{
		{Name: "Cramps", Category: SymptomCategoryPain},
		{Name: "Headache", Category: SymptomCategoryPain},
		{Name: "Back pain", Category: SymptomCategoryPain},
		{Name: "Bloating", Category: SymptomCategoryPhysical},
		{Name: "Fatigue", Category: SymptomCategoryPhysical},
		{Name: "Acne", Category: SymptomCategoryPhysical},
		{Name: "Breast tenderness", Category: SymptomCategoryPhysical},
		{Name: "Mood swings", Category: SymptomCategoryEmotional},
		{Name: "Anxiety", Category: SymptomCategoryEmotional},
		{Name: "Irritability", Category: SymptomCategoryEmotional},
	}
}
