package models

import "gorm.io/gorm"

// SeedAdmin creates the initial admin account when the users table is empty.
func SeedAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := User{
		Email:     email,
		FirstName: "System",
		LastName:  "Admin",
		Role:      RoleAdmin,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	return db.Create(&admin).Error
}

// SeedCatalog installs a starter symptom/condition catalog when the catalog
// tables are empty. Administrators extend it through the catalog endpoints.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Symptom{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	symptoms := []Symptom{
		{Name: "headache", Description: "Pain anywhere in the head or neck region"},
		{Name: "fever", Description: "Elevated body temperature above 38°C"},
		{Name: "cough", Description: "Sudden expulsion of air to clear the airways"},
		{Name: "sore throat", Description: "Pain or irritation of the throat"},
		{Name: "runny nose", Description: "Excess nasal drainage"},
		{Name: "sneezing", Description: "Involuntary expulsion of air from the nose"},
		{Name: "fatigue", Description: "Persistent tiredness or lack of energy"},
		{Name: "muscle aches", Description: "Generalized muscle pain"},
		{Name: "nausea", Description: "Urge to vomit"},
		{Name: "vomiting", Description: "Forceful expulsion of stomach contents"},
		{Name: "diarrhea", Description: "Loose or watery stools"},
		{Name: "abdominal pain", Description: "Pain between the chest and pelvis"},
		{Name: "dizziness", Description: "Lightheadedness or loss of balance"},
		{Name: "sensitivity to light", Description: "Discomfort in normal lighting"},
		{Name: "chest pain", Description: "Pain or pressure in the chest"},
		{Name: "shortness of breath", Description: "Difficulty breathing or breathlessness"},
	}
	if err := db.Create(&symptoms).Error; err != nil {
		return err
	}
	byName := make(map[string]string, len(symptoms))
	for _, s := range symptoms {
		byName[s.Name] = s.ID
	}

	conditions := []Condition{
		{Name: "Common Cold", Description: "Viral infection of the upper respiratory tract", Prevalence: 0.30},
		{Name: "Influenza", Description: "Seasonal viral infection with systemic symptoms", Prevalence: 0.15},
		{Name: "Migraine", Description: "Recurrent moderate-to-severe headache disorder", Prevalence: 0.12},
		{Name: "Gastroenteritis", Description: "Inflammation of the stomach and intestines", Prevalence: 0.10},
		{Name: "Strep Throat", Description: "Bacterial infection of the throat and tonsils", Prevalence: 0.06, IsRare: false},
	}
	if err := db.Create(&conditions).Error; err != nil {
		return err
	}
	condByName := make(map[string]string, len(conditions))
	for _, c := range conditions {
		condByName[c.Name] = c.ID
	}

	type link struct {
		condition string
		symptom   string
		weight    float64
	}
	links := []link{
		{"Common Cold", "runny nose", 0.9},
		{"Common Cold", "sneezing", 0.8},
		{"Common Cold", "sore throat", 0.7},
		{"Common Cold", "cough", 0.6},
		{"Common Cold", "headache", 0.3},
		{"Influenza", "fever", 0.9},
		{"Influenza", "muscle aches", 0.8},
		{"Influenza", "fatigue", 0.7},
		{"Influenza", "headache", 0.6},
		{"Influenza", "cough", 0.5},
		{"Migraine", "headache", 1.0},
		{"Migraine", "sensitivity to light", 0.8},
		{"Migraine", "nausea", 0.6},
		{"Migraine", "dizziness", 0.4},
		{"Gastroenteritis", "diarrhea", 0.9},
		{"Gastroenteritis", "vomiting", 0.8},
		{"Gastroenteritis", "nausea", 0.7},
		{"Gastroenteritis", "abdominal pain", 0.6},
		{"Strep Throat", "sore throat", 1.0},
		{"Strep Throat", "fever", 0.6},
		{"Strep Throat", "headache", 0.3},
	}
	rows := make([]ConditionSymptom, 0, len(links))
	for _, l := range links {
		rows = append(rows, ConditionSymptom{
			ConditionID: condByName[l.condition],
			SymptomID:   byName[l.symptom],
			Weight:      l.weight,
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return err
	}

	aliases := []ConditionAlias{
		{ConditionID: condByName["Influenza"], Alias: "flu"},
		{ConditionID: condByName["Common Cold"], Alias: "a cold"},
		{ConditionID: condByName["Gastroenteritis"], Alias: "stomach bug"},
		{ConditionID: condByName["Gastroenteritis"], Alias: "food poisoning"},
	}
	if err := db.Create(&aliases).Error; err != nil {
		return err
	}

	drugs := []DrugRecommendation{
		{ConditionID: condByName["Common Cold"], DrugName: "Paracetamol", Dosage: "500mg every 6 hours as needed", Notes: "Rest and fluids; symptoms usually resolve within a week"},
		{ConditionID: condByName["Influenza"], DrugName: "Oseltamivir", Dosage: "75mg twice daily for 5 days", Notes: "Most effective when started within 48 hours of onset"},
		{ConditionID: condByName["Migraine"], DrugName: "Sumatriptan", Dosage: "50mg at onset, may repeat after 2 hours", Notes: "Avoid in patients with cardiovascular disease"},
		{ConditionID: condByName["Gastroenteritis"], DrugName: "Oral rehydration salts", Dosage: "One sachet after each loose stool", Notes: "Seek care if symptoms persist beyond 48 hours"},
		// Strep Throat deliberately has no recommendation: antibiotics
		// require a clinician, so the scorer surfaces its consult placeholder.
	}
	return db.Create(&drugs).Error
}
