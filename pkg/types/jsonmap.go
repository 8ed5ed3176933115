package types

// JSONMap is a loosely-typed JSON object persisted through GORM's json
// serializer (carrier payload snapshots, automation event payloads).
type JSONMap map[string]any
