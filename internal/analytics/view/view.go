// Package view — граница с внешним слоем отрисовки. Само управление DOM
// остается за фронтендом; здесь только контракт рендера и чистые
// предикаты фильтрации таблиц, которые можно тестировать без окружения.
package view

import (
	"strings"

	"github.com/m0rozov/phishsight/internal/analytics/chart"
)

// Renderer — то, что должен уметь внешний слой отрисовки.
type Renderer interface {
	Render(containerID string, cfg chart.Config) error
	Update(containerID string, cfg chart.Config) error
}

// TargetProbe сообщает, существует ли цель отрисовки. Проверка наличия
// передается снаружи явно: адаптер сам окружение не щупает.
type TargetProbe func(containerID string) bool

// RenderOp — запланированная операция отрисовки. NoOp выставлен, когда
// цели нет: это штатный результат, а не ошибка.
type RenderOp struct {
	ContainerID string
	Config      chart.Config
	NoOp        bool
}

// PlanRender возвращает no-op план для отсутствующей цели вместо того,
// чтобы падать или лезть в окружение изнутри.
func PlanRender(containerID string, cfg chart.Config, exists TargetProbe) RenderOp {
	if exists == nil || !exists(containerID) {
		return RenderOp{ContainerID: containerID, NoOp: true}
	}
	return RenderOp{ContainerID: containerID, Config: cfg}
}

// MatchesFilter — контракт табличного поиска: строка видима тогда и только
// тогда, когда ее текст содержит запрос без учета регистра. Пустой запрос
// показывает все.
func MatchesFilter(rowText, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rowText), strings.ToLower(term))
}

// FilterRows применяет MatchesFilter к готовым строкам таблицы.
func FilterRows(rows []string, term string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if MatchesFilter(r, term) {
			out = append(out, r)
		}
	}
	return out
}
