package wiki

type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// CanModerate reports whether the role may use moderator actions.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

func ParseRole(s string) Role {
	switch Role(s) {
	case RoleModerator, RoleAdmin:
		return Role(s)
	default:
		return RoleUser
	}
}

type ModeratorAction string

const (
	ActionEditDescription    ModeratorAction = "EDIT_DESCRIPTION"
	ActionEditPosterURL      ModeratorAction = "EDIT_POSTER_URL"
	ActionEditAISummary      ModeratorAction = "EDIT_AI_SUMMARY"
	ActionTriggerIntegration ModeratorAction = "TRIGGER_INTEGRATION"
	ActionRegenerateAnalysis ModeratorAction = "REGENERATE_ANALYSIS"
	ActionEditDimensionScore ModeratorAction = "EDIT_DIMENSION_SCORE"
	ActionDeleteEntity       ModeratorAction = "DELETE_ENTITY"
	ActionMergeEntities      ModeratorAction = "MERGE_ENTITIES"
	ActionEditMetadata       ModeratorAction = "EDIT_METADATA"
)
