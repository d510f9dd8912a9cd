package conflict

import "time"

// The declared constraint sets per write operation. The middleware picks
// the ones matching the route; the repositories and migrations mirror the
// uniqueness rules with UNIQUE indexes.
var (
	// User emails are unique case-insensitively and ignoring stray whitespace.
	UserEmailUnique = UniquenessConstraint{
		EntityType: "usuarios",
		Field:      "email",
		CaseFold:   true,
	}

	// Telefone is optional, but when present no two users may share it.
	UserTelefoneUnique = UniquenessConstraint{
		EntityType: "usuarios",
		Field:      "telefone",
	}

	// Process numbers are stored uppercased and trimmed.
	ProcessNumberUnique = UniquenessConstraint{
		EntityType: "processos",
		Field:      "numero_processo",
		Uppercase:  true,
	}

	// No two schedules for the same user within 30 minutes of each other.
	ScheduleOverlap = OverlapConstraint{
		EntityType:   "agendamentos",
		SubjectField: "usuario_id",
		TimeField:    "data_hora",
		Margin:       30 * time.Minute,
	}
)
