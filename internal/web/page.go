package web

import (
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"doitlist/internal/task"
)

//go:generate templ generate

// PageView is the data rendered by Page.
type PageView struct {
	Tasks    task.List
	RepoURL  string
	Warnings []string
}

// taskURL is the form target for verb on the 1-based task num.
func taskURL(num int, verb string) templ.SafeURL {
	return templ.SafeURL(fmt.Sprintf("/tasks/%d/%s", num, verb))
}

func checkboxID(num int) string {
	return "task-" + strconv.Itoa(num)
}

func deleteLabel(num int) string {
	return "Delete task " + strconv.Itoa(num)
}
