package repository

import (
	"fmt"
	"io"
	"math/rand"

	"gopkg.in/yaml.v3"

	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

var generatedTeams = []string{"Leadership", "Engineering", "Finance", "Marketing", "HR", "Sales"}

// GenerateEmployees строит синтетическую оргструктуру из count сотрудников с одним корнем.
// Руководитель всегда имеет меньший идентификатор, поэтому циклов нет.
func GenerateEmployees(count int, rnd *rand.Rand) []models.Employee {
	if count <= 0 {
		return []models.Employee{}
	}

	employees := make([]models.Employee, 0, count)
	employees = append(employees, models.Employee{
		ID:          1,
		Name:        "Employee 1",
		Designation: "CEO",
		Team:        generatedTeams[0],
	})
	for i := 2; i <= count; i++ {
		manager := employees[rnd.Intn(len(employees))]
		team := manager.Team
		if manager.ManagerID == nil || rnd.Intn(4) == 0 {
			team = generatedTeams[1+rnd.Intn(len(generatedTeams)-1)]
		}
		employees = append(employees, models.Employee{
			ID:          int64(i),
			Name:        fmt.Sprintf("Employee %d", i),
			Designation: fmt.Sprintf("%s Specialist", team),
			Team:        team,
			ManagerID:   models.ManagerRef(manager.ID),
		})
	}
	return employees
}

// WriteSeedFile записывает набор сотрудников в формате, который читает LoadSeedFile.
func WriteSeedFile(w io.Writer, employees []models.Employee) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seedFile{Employees: employees}); err != nil {
		return fmt.Errorf("encode seed file: %w", err)
	}
	return enc.Close()
}
