package install

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/bottle/internal/manifest"
	"github.com/conn-castle/bottle/internal/messages"
	"github.com/conn-castle/bottle/internal/state"
)

var errNoBinaryDownloader = errors.New(messages.InstallNoDownloader)

// Custom installs custom tools by trying their declared methods in order.
// It implements reconcile.CustomInstaller.
type Custom struct {
	Env
	Binaries *Downloader
	// Prefer moves these methods to the front when a tool declares them.
	Prefer []state.CustomMethod
}

// NewCustom returns a custom tool installer.
func NewCustom(env Env, binaries *Downloader, prefer []state.CustomMethod) *Custom {
	return &Custom{Env: env, Binaries: binaries, Prefer: prefer}
}

// InstallCustom tries each install method of tool until one succeeds and
// reports which. Methods whose package manager is not on PATH are skipped.
// When tool.Verify is set it must exit zero for the install to count.
func (c *Custom) InstallCustom(name string, tool manifest.CustomTool) (state.CustomMethod, error) {
	var errs []error
	for _, inst := range OrderMethods(tool.Install, c.Prefer) {
		if cmd := managerCommand(inst.Method); cmd != "" && !c.Available(cmd) {
			errs = append(errs, fmt.Errorf(messages.InstallMethodUnavailableFmt, inst.Method, cmd))
			continue
		}
		if err := c.installWith(name, tool.Version, inst); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := c.verify(name, tool.Verify); err != nil {
			return "", err
		}
		return inst.Method, nil
	}
	if len(errs) == 0 {
		return "", fmt.Errorf(messages.InstallCustomNoMethodsFmt, name)
	}
	return "", fmt.Errorf(messages.InstallCustomFailedFmt, name, errors.Join(errs...))
}

// OrderMethods returns installs with preferred methods first, in preference
// order, followed by the rest in declaration order.
func OrderMethods(installs []manifest.CustomInstall, prefer []state.CustomMethod) []manifest.CustomInstall {
	out := make([]manifest.CustomInstall, 0, len(installs))
	used := make([]bool, len(installs))
	for _, method := range prefer {
		for i, inst := range installs {
			if !used[i] && inst.Method == method {
				out = append(out, inst)
				used[i] = true
			}
		}
	}
	for i, inst := range installs {
		if !used[i] {
			out = append(out, inst)
		}
	}
	return out
}

// managerCommand returns the executable a method needs, or "" for downloads.
func managerCommand(method state.CustomMethod) string {
	switch method {
	case state.CustomBrew:
		return "brew"
	case state.CustomCargo:
		return "cargo"
	case state.CustomNpm:
		return "npm"
	}
	return ""
}

func (c *Custom) installWith(name string, version string, inst manifest.CustomInstall) error {
	switch inst.Method {
	case state.CustomBrew:
		return c.run("brew", brewArgs(inst.Package, version)...)
	case state.CustomCargo:
		return c.run("cargo", cargoArgs(inst.Package, version)...)
	case state.CustomNpm:
		pkg := inst.Package
		if version != "" && version != "latest" {
			pkg += "@" + version
		}
		return c.run("npm", "install", "-g", pkg)
	case state.CustomBinary:
		if c.Binaries == nil {
			return errNoBinaryDownloader
		}
		_, err := c.Binaries.Install(name, inst.URL, inst.SHA256)
		return err
	}
	return fmt.Errorf(messages.StateUnknownMethodFmt, inst.Method)
}

func (c *Custom) verify(name string, command string) error {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	if err := c.run("sh", "-c", command); err != nil {
		return fmt.Errorf(messages.InstallVerifyFailedFmt, name, err)
	}
	return nil
}
