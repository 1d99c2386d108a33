// Graphzep CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
// It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/graphzep/internal/dagger"
)

// Graphzep is the main module for the Graphzep CI/CD pipeline
type Graphzep struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Graphzep CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", "build", "tmp"]
	source *dagger.Directory,
) *Graphzep {
	return &Graphzep{
		Source: source,
	}
}

// goContainer returns a Debian Bookworm-based Go container with the Go
// caches mounted and the project source at /src.
//
// It is the shared foundation for tests, builds, and linting.
func (t *Graphzep) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("GOEXPERIMENT", "jsonv2").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", t.Source)
}

// Test runs the graphzep unit tests via "go test"
func (t *Graphzep) Test(ctx context.Context) (string, error) {
	return t.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
