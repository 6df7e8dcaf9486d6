package hierarchy

import "github.com/AlekseyZapadovnikov/org-chart/internal/models"

// BuildForest строит вложенное дерево для отрисовки. Сотрудники с отсутствующим руководителем
// выводятся отдельными корнями после настоящих корней. Если задана команда, карточки её
// участников подсвечиваются, остальные приглушаются.
func BuildForest(idx *Index, team string) []*models.TreeNode {
	visited := make(map[int64]struct{}, idx.Len())

	roots := make([]*models.TreeNode, 0)
	for _, root := range append(idx.Roots(), idx.Orphans()...) {
		roots = append(roots, buildNode(idx, root, team, visited))
	}
	return roots
}

func buildNode(idx *Index, e models.Employee, team string, visited map[int64]struct{}) *models.TreeNode {
	visited[e.ID] = struct{}{}
	node := &models.TreeNode{
		Employee:       e.Clone(),
		FallbackAvatar: models.PlaceholderAvatar(e.Name),
		Highlighted:    team != "" && e.Team == team,
		Dimmed:         team != "" && e.Team != team,
		Children:       []*models.TreeNode{},
	}
	for _, child := range idx.Children(e.ID) {
		if _, seen := visited[child.ID]; seen {
			continue
		}
		node.Children = append(node.Children, buildNode(idx, child, team, visited))
	}
	return node
}
