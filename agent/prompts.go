package agent

import (
	"github.com/hupe1980/agentloop/core"
	"github.com/hupe1980/agentloop/internal/util"
)

const defaultReActInstruction = "You are a helpful assistant."

var reactPrompt = util.MustParse("react", `{{.Instruction}}

Task: {{.Task}}

{{if .Catalog}}You have the following tools available:
{{.Catalog}}{{else}}You have no tools available.{{end}}

At each step, respond with a single JSON object containing your `+"`thought`"+` and the `+"`action`"+` to take, and nothing else:
{"thought": "<your reasoning>", "action": {"tool": "<tool name>", "args": "<tool arguments as one string>"}}

After each action you will see its result as an Observation.
If you have completed the task, use the `+"`"+core.FinishTool+"`"+` tool with the final answer as `+"`args`"+`.`)

var supervisorPrompt = util.MustParse("supervisor", `You are a supervisor agent. Your job is to route a task to the correct worker agent.

The available workers are:
{{range .Workers}}- {{.Name}}: {{.Description}}
{{end}}
The task is: {{.Task}}

Respond with a single JSON object containing the name of the `+"`worker`"+` to route the task to and the `+"`task`"+` to give it, and nothing else:
{"worker": "<worker name>", "task": "<task for the worker>"}`)

var plannerPrompt = util.MustParse("planner", `You are a planner agent. Your job is to create a step-by-step plan to accomplish the following task: {{.Task}}

Respond with a numbered list of steps, one step per line, and nothing else. Each step must be a self-contained task.`)

type reactPromptData struct {
	Instruction string
	Task        string
	Catalog     string
}

type supervisorPromptData struct {
	Workers []core.AgentDescriptor
	Task    string
}

type plannerPromptData struct {
	Task string
}
