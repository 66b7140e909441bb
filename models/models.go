package models

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Question{},
		&Board{},
		&Category{},
		&Slot{},
		&Game{},
		&GameState{},
		&AnsweredSlot{},
		&Team{},
		&Student{},
		&GameEvent{},
	}
}
