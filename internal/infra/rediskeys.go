package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "phishsight"
)

// Ключи кэша аналитики
const (
	RedisKeyAnalyticsAdmin = RedisNamespace + ":analytics:admin"
)

// Каналы Pub/Sub (события)
const (
	// RedisChanDetections — канал инвалидации кэша: каждая новая детекция
	// публикует сюда имя пользователя.
	RedisChanDetections = RedisNamespace + ":detections:new"
)

// GetAnalyticsCacheKey Генератор ключей кэша пер-пользовательской аналитики
func GetAnalyticsCacheKey(username string) string {
	return fmt.Sprintf("%s:analytics:user:%s", RedisNamespace, username)
}
