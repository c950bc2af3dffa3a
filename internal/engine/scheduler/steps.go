package scheduler

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

// buildSteps returns the ordered steps that build an already-resolved
// target. Command templates stay unexpanded; the configuration is applied
// just before execution.
func (s *Scheduler) buildSteps(t domain.Target) ([]domain.Step, error) {
	switch kind := t.Kind.(type) {
	case domain.ShellKind:
		steps := make([]domain.Step, len(kind.Steps))
		for i, step := range kind.Steps {
			steps[i] = step
		}
		return steps, nil
	case domain.CrateKind:
		return s.crateSteps(kind), nil
	case domain.DownloadKind:
		return s.downloadSteps(t, kind), nil
	case domain.ImageBuildKind:
		return s.imageBuildSteps(t, kind), nil
	case domain.ImagePullKind:
		return s.imagePullSteps(t, kind), nil
	case domain.ImageInstallKind:
		return s.imageInstallSteps(kind)
	case domain.InstallKind:
		return s.installSteps(kind), nil
	case domain.ContainerRunKind:
		return s.containerRunSteps(kind), nil
	case domain.VoidKind:
		return nil, nil
	default:
		return nil, zerr.With(zerr.New("target kind cannot build"), "kind", t.Kind.Kind())
	}
}

// crateSteps delegates compilation to the toolchain. The target triple is
// passed only when the architecture was requested explicitly, so default
// builds leave the host toolchain untouched.
func (s *Scheduler) crateSteps(kind domain.CrateKind) []domain.Step {
	args := []string{"build"}
	if kind.Triple != "" && (s.cfg.Arch.Given() || kind.TripleAlways) {
		args = append(args, "--target", kind.Triple)
	}
	if !kind.ForceDev && !s.cfg.Dev {
		args = append(args, "--release")
	}
	for _, pkg := range kind.Packages {
		args = append(args, "--package", pkg)
	}
	return []domain.Step{domain.ExecStep{
		Program: "cargo",
		Args:    args,
		Env:     kind.Env,
		Unset:   kind.Unset,
	}}
}

// downloadSteps fetches the asset into the target's single result and marks
// it executable. The fetch runs in-process so an interrupted transfer can
// remove its partial file.
func (s *Scheduler) downloadSteps(t domain.Target, kind domain.DownloadKind) []domain.Step {
	url := s.cfg.Expand(kind.URL)
	dest := s.cfg.Expand(t.Results[0])
	return []domain.Step{
		domain.FuncStep{
			Desc: "Downloading '" + url + "' to '" + dest + "'...",
			Run: func(ctx context.Context) error {
				return s.fetcher.Fetch(ctx, url, dest)
			},
		},
		domain.ExecStep{Program: "chmod", Args: []string{"+x", dest}},
	}
}

// imageBuildSteps builds a container image straight into the target's
// archive result.
func (s *Scheduler) imageBuildSteps(t domain.Target, kind domain.ImageBuildKind) []domain.Step {
	dest := t.Results[0]
	args := []string{"build", "--output", "type=docker,dest=" + dest, "-f", kind.Dockerfile}
	if s.cfg.Arch.Given() {
		args = append(args, "--platform", s.cfg.Arch.Container())
	}
	if kind.Stage != "" {
		args = append(args, "--target", kind.Stage)
	}
	for _, key := range slices.Sorted(maps.Keys(kind.BuildArgs)) {
		args = append(args, "--build-arg", key+"="+kind.BuildArgs[key])
	}
	args = append(args, kind.BuildContext())

	return []domain.Step{
		domain.ExecStep{Program: "mkdir", Args: []string{"-p", filepath.Dir(dest)}},
		domain.ExecStep{Program: "docker", Args: args},
	}
}

// imagePullSteps pulls the image from its registry and saves it to the
// target's archive result.
func (s *Scheduler) imagePullSteps(t domain.Target, kind domain.ImagePullKind) []domain.Step {
	dest := t.Results[0]
	return []domain.Step{
		domain.ExecStep{Program: "mkdir", Args: []string{"-p", filepath.Dir(dest)}},
		domain.ExecStep{Program: "docker", Args: []string{"pull", kind.Ref}},
		domain.ExecStep{Program: "docker", Args: []string{"save", "--output", dest, kind.Ref}},
	}
}

// imageInstallSteps loads the archive into the local engine and tags the
// loaded image. The digest is read from the archive, which the producing
// dependency guarantees to exist by build time.
func (s *Scheduler) imageInstallSteps(kind domain.ImageInstallKind) ([]domain.Step, error) {
	archive := s.cfg.Expand(kind.Archive)
	digest, err := s.images.ArchiveDigest(archive)
	if err != nil {
		return nil, err
	}
	return []domain.Step{
		domain.ExecStep{Program: "docker", Args: []string{"load", "--input", archive}},
		domain.ExecStep{Program: "docker", Args: []string{"tag", digest, kind.Tag}},
	}, nil
}

// installSteps copies the produced file into place, optionally through sudo.
func (s *Scheduler) installSteps(kind domain.InstallKind) []domain.Step {
	mkdir := domain.ExecStep{Program: "mkdir", Args: []string{"-p", filepath.Dir(kind.Dest)}}
	cp := domain.ExecStep{Program: "cp", Args: []string{kind.Source, kind.Dest}}
	if kind.Sudo {
		mkdir = sudoStep(mkdir)
		cp = sudoStep(cp)
	}
	return []domain.Step{mkdir, cp}
}

// sudoStep reroutes a command through sudo.
func sudoStep(step domain.ExecStep) domain.ExecStep {
	step.Args = append([]string{step.Program}, step.Args...)
	step.Program = "sudo"
	return step
}

// containerRunSteps runs the build inside a disposable container, then
// returns ownership of every mounted path to the invoking user. The engine
// runs the container as root, so files written into the mounts arrive
// root-owned.
func (s *Scheduler) containerRunSteps(kind domain.ContainerRunKind) []domain.Step {
	args := []string{"run", "--name", kind.Image,
		"--attach", "STDIN", "--attach", "STDOUT", "--attach", "STDERR"}
	for _, key := range slices.Sorted(maps.Keys(kind.Env)) {
		args = append(args, "-e", key+"="+kind.Env[key])
	}
	for _, v := range kind.Volumes {
		args = append(args, "-v", v.Host+":"+v.Container)
	}
	args = append(args, kind.Image)
	args = append(args, kind.Command...)

	steps := []domain.Step{domain.ExecStep{Program: "docker", Args: args}}
	owner := strconv.Itoa(os.Getuid()) + ":" + strconv.Itoa(os.Getgid())
	for _, v := range kind.Volumes {
		steps = append(steps, domain.ExecStep{
			Program: "sudo",
			Args:    []string{"chown", "-R", owner, v.Host},
			Desc:    "Restoring user permissions to '" + v.Host + "' ($CMD)...",
		})
	}
	return steps
}
