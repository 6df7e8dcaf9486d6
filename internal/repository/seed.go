package repository

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

// seedFile описывает файл с набором сотрудников. JSON читается тем же парсером.
type seedFile struct {
	Employees []models.Employee `yaml:"employees"`
}

// LoadSeedFile читает набор сотрудников из YAML- или JSON-файла.
func LoadSeedFile(path string) ([]models.Employee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	seen := make(map[int64]struct{}, len(seed.Employees))
	for i, e := range seed.Employees {
		if e.ID <= 0 {
			return nil, fmt.Errorf("seed employee at index %d has no id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("duplicate employee id %d in seed file", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return seed.Employees, nil
}

// DemoEmployees возвращает демонстрационную оргструктуру.
func DemoEmployees() []models.Employee {
	m := models.ManagerRef
	return []models.Employee{
		// Руководство
		{ID: 1, Name: "Mark Hill", Designation: "CEO", Team: "Leadership", ManagerID: nil, Avatar: "https://i.pravatar.cc/150?img=12"},
		{ID: 2, Name: "Joe Linux", Designation: "CTO", Team: "Leadership", ManagerID: m(1), Avatar: "https://i.pravatar.cc/150?img=13"},
		{ID: 3, Name: "John Green", Designation: "CFO", Team: "Leadership", ManagerID: m(1), Avatar: "https://i.pravatar.cc/150?img=33"},

		// Разработка
		{ID: 4, Name: "Ron Blomquist", Designation: "Senior Engineer", Team: "Engineering", ManagerID: m(2), Avatar: "https://i.pravatar.cc/150?img=15"},
		{ID: 5, Name: "Sarah Chen", Designation: "Engineering Manager", Team: "Engineering", ManagerID: m(2), Avatar: "https://i.pravatar.cc/150?img=5"},
		{ID: 6, Name: "Mike Torres", Designation: "Software Engineer", Team: "Engineering", ManagerID: m(5), Avatar: "https://i.pravatar.cc/150?img=17"},
		{ID: 7, Name: "Emily Watson", Designation: "Software Engineer", Team: "Engineering", ManagerID: m(5), Avatar: "https://i.pravatar.cc/150?img=9"},
		{ID: 8, Name: "David Kim", Designation: "QA Engineer", Team: "Engineering", ManagerID: m(4), Avatar: "https://i.pravatar.cc/150?img=52"},

		// Финансы
		{ID: 9, Name: "Lisa Anderson", Designation: "Finance Manager", Team: "Finance", ManagerID: m(3), Avatar: "https://i.pravatar.cc/150?img=10"},
		{ID: 10, Name: "Robert Taylor", Designation: "Accountant", Team: "Finance", ManagerID: m(9), Avatar: "https://i.pravatar.cc/150?img=53"},
		{ID: 11, Name: "Jennifer Brown", Designation: "Financial Analyst", Team: "Finance", ManagerID: m(9), Avatar: "https://i.pravatar.cc/150?img=29"},

		// Маркетинг
		{ID: 12, Name: "Amanda White", Designation: "Marketing Director", Team: "Marketing", ManagerID: m(1), Avatar: "https://i.pravatar.cc/150?img=20"},
		{ID: 13, Name: "Chris Martinez", Designation: "Content Manager", Team: "Marketing", ManagerID: m(12), Avatar: "https://i.pravatar.cc/150?img=51"},
		{ID: 14, Name: "Nicole Johnson", Designation: "Social Media Specialist", Team: "Marketing", ManagerID: m(12), Avatar: "https://i.pravatar.cc/150?img=32"},

		// HR
		{ID: 15, Name: "Patricia Davis", Designation: "HR Manager", Team: "HR", ManagerID: m(1), Avatar: "https://i.pravatar.cc/150?img=44"},
		{ID: 16, Name: "Kevin Lee", Designation: "HR Specialist", Team: "HR", ManagerID: m(15), Avatar: "https://i.pravatar.cc/150?img=60"},
		{ID: 17, Name: "Rachel Moore", Designation: "Recruiter", Team: "HR", ManagerID: m(15), Avatar: "https://i.pravatar.cc/150?img=23"},
	}
}
