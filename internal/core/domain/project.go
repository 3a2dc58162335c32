package domain

import "time"

// ProjectType identifies what a project is used for.
type ProjectType string

const (
	// ProjectTypeRAG projects own a vector index and support embeddings.
	ProjectTypeRAG ProjectType = "rag"
	// ProjectTypeInference projects proxy a model without retrieval.
	ProjectTypeInference ProjectType = "inference"
	// ProjectTypeAgent projects run tool-using agents.
	ProjectTypeAgent ProjectType = "agent"
)

// Valid reports whether t is a known project type.
func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeRAG, ProjectTypeInference, ProjectTypeAgent:
		return true
	}
	return false
}

// Project is the configuration of a tenant project.
// K and Score are tunable search defaults; zero means unset.
type Project struct {
	ID        int64       `json:"id"`
	UID       string      `json:"uid"`
	Name      string      `json:"name"`
	Type      ProjectType `json:"type"`
	K         int         `json:"k,omitempty"`
	Score     float64     `json:"score,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsRAG reports whether the project supports embeddings.
func (p *Project) IsRAG() bool {
	return p.Type == ProjectTypeRAG
}

// Role is a caller's role within a project.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

var roleRank = map[Role]int{
	RoleMember:    1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// AtLeast reports whether r grants every permission of min.
// Unknown roles grant nothing.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID int64
	// Role is the caller's global role; it applies to every project.
	Role Role
	// ProjectRoles overrides Role for specific project uids.
	ProjectRoles map[string]Role
}

// RoleFor returns the effective role of the principal for a project.
// The higher of the global and project role wins.
func (p Principal) RoleFor(projectUID string) Role {
	role := p.Role
	if pr, ok := p.ProjectRoles[projectUID]; ok && !role.AtLeast(pr) {
		role = pr
	}
	return role
}
