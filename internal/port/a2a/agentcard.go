package a2a

// AgentCard is the static capability descriptor served at
// /.well-known/agent-card.json.
type AgentCard struct {
	Protocol        string   `json:"protocol"`
	ProtocolVersion string   `json:"protocolVersion"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	URL             string   `json:"url"`
	Authentication  CardAuth `json:"authentication"`
	Capabilities    []string `json:"capabilities"`
	Profiles        []string `json:"profiles"`
	Methods         []string `json:"methods"`
	Skills          []Skill  `json:"skills,omitempty"`
}

// CardAuth lists the supported authentication schemes.
type CardAuth struct {
	Schemes []string `json:"schemes"`
}

// Skill describes a single capability of the agent.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	InputModes  []string `json:"inputModes"`
	OutputModes []string `json:"outputModes"`
}

// BuildAgentCard returns the capability descriptor for this service.
func BuildAgentCard(name, baseURL string) AgentCard {
	return AgentCard{
		Protocol:        "a2a",
		ProtocolVersion: "0.3",
		Name:            name,
		Description:     "Bearer-gated A2A relay with task lifecycle tracking and SSE replay",
		URL:             baseURL,
		Authentication:  CardAuth{Schemes: []string{"bearer"}},
		Capabilities:    []string{"tasks", "streaming"},
		Profiles:        []string{"standards"},
		Methods: []string{
			"message/send",
			"message/stream",
			"tasks/get",
			"tasks/resubscribe",
		},
		Skills: []Skill{
			{
				ID:          "semantic-answer",
				Name:        "Semantic Answer",
				Description: "Answer a prompt via the configured semantic responder",
				InputModes:  []string{"text"},
				OutputModes: []string{"text"},
			},
		},
	}
}
