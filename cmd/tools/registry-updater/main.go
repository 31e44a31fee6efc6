// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"careers-scheduling/pkg/registry"
)

// Maintains configs/task-registry.json, the shared catalog of worker task
// types referenced from the BPMN models. Process designers read it; CI runs
// the validate command.

const defaultRegistryPath = "configs/task-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(os.Args[2:])
	case "remove":
		err = runRemove(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "help":
		help()
	default:
		help()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAdd(args []string) error {
	cmd := flag.NewFlagSet("add", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	id := cmd.String("id", "", "Task ID (e.g., schedule-interview)")
	taskType := cmd.String("taskType", "", "Zeebe task type (e.g., schedule-interview)")
	description := cmd.String("description", "", "Description")
	category := cmd.String("category", "", "Category (interview, feedback)")
	version := cmd.String("version", "1.0.0", "Version")
	timeout := cmd.String("timeout", "30s", "Handler timeout")
	retries := cmd.Int("retries", 3, "Retry count")
	cmd.Parse(args)

	if *id == "" || *taskType == "" || *category == "" {
		cmd.Usage()
		return fmt.Errorf("id, taskType, and category are required")
	}

	reg, err := loadOrInit(*path)
	if err != nil {
		return err
	}
	if reg.FindByTaskType(*taskType) != nil {
		return fmt.Errorf("task type %s already registered", *taskType)
	}

	reg.Tasks = append(reg.Tasks, registry.Task{
		ID:          *id,
		Description: *description,
		Category:    *category,
		Version:     *version,
		TaskType:    *taskType,
		Timeout:     *timeout,
		Retries:     *retries,
	})
	if err := reg.Validate(); err != nil {
		return err
	}

	if err := save(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Added task: %s\n", *taskType)
	return nil
}

func runRemove(args []string) error {
	cmd := flag.NewFlagSet("remove", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	taskType := cmd.String("taskType", "", "Task type to remove")
	cmd.Parse(args)

	if *taskType == "" {
		cmd.Usage()
		return fmt.Errorf("taskType is required")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	kept := reg.Tasks[:0]
	removed := false
	for _, task := range reg.Tasks {
		if task.TaskType == *taskType {
			removed = true
			continue
		}
		kept = append(kept, task)
	}
	if !removed {
		return fmt.Errorf("task type %s not found", *taskType)
	}
	reg.Tasks = kept

	if err := save(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Removed task: %s\n", *taskType)
	return nil
}

func runValidate(args []string) error {
	cmd := flag.NewFlagSet("validate", flag.ExitOnError)
	path := cmd.String("path", defaultRegistryPath, "Path to registry file")
	cmd.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	if len(reg.Tasks) == 0 {
		return fmt.Errorf("registry contains no tasks")
	}
	if err := reg.Validate(); err != nil {
		return err
	}

	fmt.Printf("Registry validation passed. Found %d tasks.\n", len(reg.Tasks))
	return nil
}

func loadOrInit(path string) (*registry.TaskRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &registry.TaskRegistry{Version: "1.0.0"}, nil
		}
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return reg, nil
}

func save(reg *registry.TaskRegistry, path string) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a task definition to the registry
  remove   Remove a task definition by task type
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater add -id schedule-interview -taskType schedule-interview -category interview -description "Creates an interview and generates its calendar invite"
  registry-updater remove -taskType schedule-interview
  registry-updater validate -path configs/task-registry.json
`)
}
