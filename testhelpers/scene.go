package testhelpers

import (
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git repository.
// The directory is removed by the testing framework.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir := t.TempDir()

	// Initialize Git repository
	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:  tmpDir,
		Repo: repo,
	}

	// Run custom setup if provided
	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// PackageSceneSetup creates a minimal Debian source package on main.
func PackageSceneSetup(scene *Scene) error {
	control := "Source: hello\nMaintainer: Jane Doe <jane@example.org>\n\nPackage: hello\nArchitecture: any\n"
	if err := scene.Repo.WriteFile("debian/control", control); err != nil {
		return err
	}
	if err := scene.Repo.RunGitCommand("add", "debian/control"); err != nil {
		return err
	}
	return scene.Repo.CommitFile("hello.c", "int main(void)\n{\n\treturn 0;\n}\n", "Initial upload")
}
