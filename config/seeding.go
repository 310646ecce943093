package config

import (
	"log"

	"p9e.in/teleops/models"
)

// SeedOpmcs loads the OPMC directory. Existing rtom codes are left alone so
// re-running on an initialized database is a no-op.
func SeedOpmcs() {
	defaultUnits := []struct {
		Region       string
		Province     string
		Rtom         string
		RegularTeams int
	}{
		{Region: "Region 1 - Metro", Province: "Western", Rtom: "R-AD", RegularTeams: 12},
		{Region: "Region 1 - Metro", Province: "Western", Rtom: "R-HV", RegularTeams: 10},
		{Region: "Region 1 - Metro", Province: "Western", Rtom: "R-KX", RegularTeams: 8},
		{Region: "Region 2", Province: "Central", Rtom: "R-KY", RegularTeams: 9},
		{Region: "Region 2", Province: "Central", Rtom: "R-MT", RegularTeams: 6},
		{Region: "Region 3", Province: "Southern", Rtom: "R-GL", RegularTeams: 7},
		{Region: "Region 3", Province: "Southern", Rtom: "R-MH", RegularTeams: 5},
	}

	for _, unitData := range defaultUnits {
		var unit models.Opmc
		err := DB.Where("rtom = ?", unitData.Rtom).First(&unit).Error

		if err != nil {
			unit = models.Opmc{
				Region:       unitData.Region,
				Province:     unitData.Province,
				Rtom:         unitData.Rtom,
				RegularTeams: unitData.RegularTeams,
			}
			if err := DB.Create(&unit).Error; err != nil {
				log.Printf("Error creating OPMC %s: %v", unitData.Rtom, err)
				continue
			}
			log.Printf("Created OPMC: %s (ID: %s)", unitData.Rtom, unit.ID)
		}
	}
}
