package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/conn-castle/bottle/internal/config"
	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/mcp"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/skillvalidator"
	"github.com/conn-castle/bottle/internal/update"
)

var (
	probeAllFunc          = mcp.ProbeAll
	checkForUpdate        = update.Check
	validateInstalledFunc = skillvalidator.ValidateInstalled
)

// CheckMCPServers launches each bespoke MCP server of m and lists its tools.
// Servers whose ${VAR} references cannot be resolved by lookup fail without
// being launched.
func CheckMCPServers(ctx context.Context, m *manifest.Manifest, lookup func(string) (string, bool)) []Result {
	if m == nil || len(m.MCPServers) == 0 {
		return []Result{{Status: StatusOK, CheckName: messages.DoctorCheckNameMCP, Message: messages.DoctorMCPNoServers}}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var results []Result
	var targets []mcp.ProbeTarget
	for _, name := range m.MCPServerNames() {
		target, missing := probeTarget(name, m.MCPServers[name], lookup)
		if len(missing) > 0 {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameMCP,
				Message:        fmt.Sprintf(messages.DoctorMCPServerUnresolvedFmt, name, strings.Join(missing, ", ")),
				Recommendation: messages.DoctorMCPServerRecommend,
			})
			continue
		}
		targets = append(targets, target)
	}

	for _, probe := range probeAllFunc(ctx, targets) {
		if probe.Err != nil {
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameMCP,
				Message:        fmt.Sprintf(messages.DoctorMCPServerFailedFmt, probe.Name, probe.Err),
				Recommendation: messages.DoctorMCPServerRecommend,
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameMCP,
			Message:   fmt.Sprintf(messages.DoctorMCPServerOKFmt, probe.Name, len(probe.Tools)),
		})
	}
	return results
}

// probeTarget expands server into a launchable target and reports unresolved variables.
func probeTarget(name string, server manifest.MCPServer, lookup func(string) (string, bool)) (mcp.ProbeTarget, []string) {
	seen := map[string]bool{}
	var missing []string
	expand := func(s string) string {
		out, unresolved := manifest.ExpandEnvRefs(s, lookup)
		for _, v := range unresolved {
			if !seen[v] {
				seen[v] = true
				missing = append(missing, v)
			}
		}
		return out
	}

	target := mcp.ProbeTarget{Name: name, Command: server.Command}
	for _, arg := range server.Args {
		target.Args = append(target.Args, expand(arg))
	}
	for _, key := range sortedKeys(server.Env) {
		target.Env = append(target.Env, key+"="+expand(server.Env[key]))
	}
	return target, missing
}

// CheckSkills validates the Codex skills bottle installed under skillsDir.
// It is skipped when the Codex integration is not recorded.
func CheckSkills(skillsDir string, integrated bool, names []string) []Result {
	if !integrated {
		return []Result{{Status: StatusOK, CheckName: messages.DoctorCheckNameSkills, Message: messages.DoctorSkillsNotIntegrated}}
	}
	findings, err := validateInstalledFunc(skillsDir, names)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameSkills,
			Message:        fmt.Sprintf(messages.DoctorSkillsCheckFailedFmt, err),
			Recommendation: messages.DoctorSkillsRecommend,
		}}
	}
	if len(findings) == 0 {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameSkills,
			Message:   fmt.Sprintf(messages.DoctorSkillsValidatedFmt, len(names)),
		}}
	}
	results := make([]Result, 0, len(findings))
	for _, finding := range findings {
		status := StatusWarn
		if finding.Code == skillvalidator.CodeMissing {
			status = StatusFail
		}
		results = append(results, Result{
			Status:         status,
			CheckName:      messages.DoctorCheckNameSkills,
			Message:        finding.String(),
			Recommendation: messages.DoctorSkillsRecommend,
		})
	}
	return results
}

// CheckUpdate reports whether a newer bottle release exists. It never fails:
// every problem is a warning.
func CheckUpdate(ctx context.Context, currentVersion string, noNetwork bool) Result {
	result := Result{CheckName: messages.DoctorCheckNameUpdate}
	if noNetwork {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf(messages.DoctorUpdateSkippedFmt, config.EnvNoNetwork)
		result.Recommendation = fmt.Sprintf(messages.DoctorUpdateSkippedRecommendFmt, config.EnvNoNetwork)
		return result
	}
	check, err := checkForUpdate(ctx, currentVersion)
	switch {
	case err != nil && update.IsRateLimitError(err):
		result.Status = StatusWarn
		result.Message = messages.DoctorUpdateRateLimited
	case err != nil:
		result.Status = StatusWarn
		result.Message = fmt.Sprintf(messages.DoctorUpdateFailedFmt, err)
		result.Recommendation = messages.DoctorUpdateFailedRecommend
	case check.Dev:
		result.Status = StatusWarn
		result.Message = fmt.Sprintf(messages.DoctorUpdateDevBuildFmt, check.Latest)
		result.Recommendation = messages.DoctorUpdateDevBuildRecommend
	case check.Outdated:
		result.Status = StatusWarn
		result.Message = fmt.Sprintf(messages.DoctorUpdateAvailableFmt, check.Latest, check.Current)
		result.Recommendation = fmt.Sprintf(messages.DoctorUpdateAvailableRecFmt, update.ReleasesURL)
	default:
		result.Status = StatusOK
		result.Message = fmt.Sprintf(messages.DoctorUpToDateFmt, check.Current)
	}
	return result
}
