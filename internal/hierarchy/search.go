package hierarchy

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/AlekseyZapadovnikov/org-chart/internal/models"
)

// Search фильтрует сотрудников по подстроке в имени, должности или команде без учёта регистра.
// Пробелы в запросе значимы: фильтр снимает только пустая строка.
func Search(employees []models.Employee, term string) []models.Employee {
	if term == "" {
		return employees
	}
	term = strings.ToLower(term)

	result := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if strings.Contains(strings.ToLower(e.Name), term) ||
			strings.Contains(strings.ToLower(e.Designation), term) ||
			strings.Contains(strings.ToLower(e.Team), term) {
			result = append(result, e)
		}
	}
	return result
}

// FilterByTeam оставляет только участников команды, без их руководителей.
func FilterByTeam(employees []models.Employee, team string) []models.Employee {
	if team == "" {
		return employees
	}
	result := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if e.Team == team {
			result = append(result, e)
		}
	}
	return result
}

// Teams возвращает отсортированный список команд без повторов.
func Teams(employees []models.Employee) []string {
	seen := make(map[string]struct{}, len(employees))
	teams := make([]string, 0)
	for _, e := range employees {
		if _, ok := seen[e.Team]; ok {
			continue
		}
		seen[e.Team] = struct{}{}
		teams = append(teams, e.Team)
	}
	sort.Strings(teams)
	return teams
}

// Suggest подбирает сотрудников для автодополнения по нечёткому совпадению имени.
func Suggest(employees []models.Employee, query string, limit int) []models.Employee {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil
	}

	names := make([]string, len(employees))
	for i, e := range employees {
		names[i] = e.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	result := make([]models.Employee, 0, len(ranks))
	for _, rank := range ranks {
		result = append(result, employees[rank.OriginalIndex])
	}
	return result
}
