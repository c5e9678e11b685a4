package responses

type EntityType string

const (
	EntityTypeLabel   EntityType = "label"
	EntityTypeCounter EntityType = "counter"
	EntityTypeFlag    EntityType = "flag"
	EntityTypeList    EntityType = "list"
)

// Entity is one of Label, Counter, Flag or List.
type Entity interface {
	isEntity()
}

type Label struct {
	Name  string
	Value string
}

type Counter struct {
	Name  string
	Value float64
}

type Flag struct {
	Name  string
	Value bool
}

// List values are untyped JSON scalars: string, float64, bool or nil.
type List struct {
	Name  string
	Value []any
}

func (Label) isEntity()   {}
func (Counter) isEntity() {}
func (Flag) isEntity()    {}
func (List) isEntity()    {}

func EntityName(entity Entity) string {
	switch typed := entity.(type) {
	case Label:
		return typed.Name
	case Counter:
		return typed.Name
	case Flag:
		return typed.Name
	case List:
		return typed.Name
	}
	return ""
}

func EntityTypeOf(entity Entity) EntityType {
	switch entity.(type) {
	case Label:
		return EntityTypeLabel
	case Counter:
		return EntityTypeCounter
	case Flag:
		return EntityTypeFlag
	case List:
		return EntityTypeList
	}
	return ""
}

// EntityValue returns the value in the shape it takes on the wire.
func EntityValue(entity Entity) any {
	switch typed := entity.(type) {
	case Label:
		return typed.Value
	case Counter:
		return typed.Value
	case Flag:
		return typed.Value
	case List:
		if typed.Value == nil {
			return []any{}
		}
		return typed.Value
	}
	return nil
}
