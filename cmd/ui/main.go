package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"task-tracker/internal/client"
	"task-tracker/internal/config"
	"task-tracker/pkg/employee"
	"task-tracker/pkg/eventgraph"
	"task-tracker/pkg/task"
	"task-tracker/pkg/tracker"
)

var theme *material.Theme

// Pages
const (
	pageDashboard = iota
	pageTasks
	pagePastDue
	pageEmployees
	pageEvents
)

var (
	grey   = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	green  = color.NRGBA{R: 0x00, G: 0xC0, B: 0x00, A: 0xFF}
	orange = color.NRGBA{R: 0xFF, G: 0xA0, B: 0x00, A: 0xFF}
	red    = color.NRGBA{R: 0xFF, G: 0x40, B: 0x40, A: 0xFF}
)

type UI struct {
	api    *client.Client
	window *app.Window

	currentPage int

	// Nav buttons
	navDashboard widget.Clickable
	navTasks     widget.Clickable
	navPastDue   widget.Clickable
	navEmployees widget.Clickable
	navEvents    widget.Clickable

	// Guards the fetched data below; pollers write it, frames read it.
	mu        sync.Mutex
	status    client.Status
	summary   string
	tasks     []task.Task
	pastDue   []task.Task
	employees []employee.Employee
	events    []eventgraph.Event
	lastErr   string

	// Dashboard
	refreshBtn widget.Clickable

	// Tasks
	taskList      widget.List
	titleEditor   widget.Editor
	descEditor    widget.Editor
	catEditor     widget.Editor
	minutesEditor widget.Editor
	createTaskBtn widget.Clickable
	completeBtn   []widget.Clickable

	// Past due
	pastDueList widget.List

	// Employees
	employeeList      widget.List
	nameEditor        widget.Editor
	emailEditor       widget.Editor
	createEmployeeBtn widget.Clickable

	// Events
	eventList widget.List
}

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	principal := os.Getenv("TT_PRINCIPAL")
	if principal == "" {
		principal = os.Getenv("USER")
	}
	api, err := client.New(cfg.APIBase, principal, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	theme = material.NewTheme()
	theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	theme.Palette.Bg = color.NRGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xFF}
	theme.Palette.Fg = color.NRGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	theme.Palette.ContrastBg = color.NRGBA{R: 0x30, G: 0x60, B: 0xA0, A: 0xFF}
	theme.Palette.ContrastFg = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	ui := &UI{api: api, window: new(app.Window)}
	ui.taskList.Axis = layout.Vertical
	ui.pastDueList.Axis = layout.Vertical
	ui.employeeList.Axis = layout.Vertical
	ui.eventList.Axis = layout.Vertical
	for _, ed := range []*widget.Editor{&ui.titleEditor, &ui.descEditor, &ui.catEditor, &ui.minutesEditor, &ui.nameEditor, &ui.emailEditor} {
		ed.SingleLine = true
	}

	go ui.pollData()

	go func() {
		ui.window.Option(app.Title("task tracker: " + principal))
		ui.window.Option(app.Size(unit.Dp(1200), unit.Dp(800)))
		if err := ui.run(ui.window); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func (ui *UI) run(w *app.Window) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			ui.mu.Lock()
			ui.handleClicks(gtx)
			ui.layout(gtx)
			ui.mu.Unlock()
			e.Frame(gtx.Ops)
		}
	}
}

func (ui *UI) handleClicks(gtx layout.Context) {
	if ui.navDashboard.Clicked(gtx) {
		ui.currentPage = pageDashboard
	}
	if ui.navTasks.Clicked(gtx) {
		ui.currentPage = pageTasks
	}
	if ui.navPastDue.Clicked(gtx) {
		ui.currentPage = pagePastDue
	}
	if ui.navEmployees.Clicked(gtx) {
		ui.currentPage = pageEmployees
	}
	if ui.navEvents.Clicked(gtx) {
		ui.currentPage = pageEvents
	}
	if ui.refreshBtn.Clicked(gtx) {
		go ui.fetchAll()
	}
	if ui.createTaskBtn.Clicked(gtx) {
		minutes, _ := strconv.ParseInt(strings.TrimSpace(ui.minutesEditor.Text()), 10, 64)
		in := tracker.TaskInput{
			Title:           ui.titleEditor.Text(),
			Description:     ui.descEditor.Text(),
			Category:        ui.catEditor.Text(),
			DurationMinutes: minutes,
		}
		go ui.createTask(in)
	}
	for i := range ui.completeBtn {
		if i < len(ui.tasks) && ui.completeBtn[i].Clicked(gtx) {
			go ui.completeTask(ui.tasks[i].ID)
		}
	}
	if ui.createEmployeeBtn.Clicked(gtx) {
		go ui.createEmployee(ui.nameEditor.Text(), ui.emailEditor.Text())
	}
}

func (ui *UI) layout(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return ui.layoutNav(gtx)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Top: unit.Dp(16), Right: unit.Dp(16), Bottom: unit.Dp(16), Left: unit.Dp(16)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				switch ui.currentPage {
				case pageTasks:
					return ui.layoutTasks(gtx)
				case pagePastDue:
					return ui.layoutPastDue(gtx)
				case pageEmployees:
					return ui.layoutEmployees(gtx)
				case pageEvents:
					return ui.layoutEvents(gtx)
				default:
					return ui.layoutDashboard(gtx)
				}
			})
		}),
	)
}

func (ui *UI) layoutNav(gtx layout.Context) layout.Dimensions {
	gtx.Constraints.Min.X = gtx.Dp(unit.Dp(180))
	gtx.Constraints.Max.X = gtx.Dp(unit.Dp(180))
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Top: unit.Dp(16), Bottom: unit.Dp(16), Left: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				label := material.H6(theme, "tracker")
				label.Color = theme.Palette.ContrastFg
				return label.Layout(gtx)
			})
		}),
		layout.Rigid(navBtn(theme, &ui.navDashboard, "Dashboard", ui.currentPage == pageDashboard)),
		layout.Rigid(navBtn(theme, &ui.navTasks, "Tasks", ui.currentPage == pageTasks)),
		layout.Rigid(navBtn(theme, &ui.navPastDue, "Past due", ui.currentPage == pagePastDue)),
		layout.Rigid(navBtn(theme, &ui.navEmployees, "Employees", ui.currentPage == pageEmployees)),
		layout.Rigid(navBtn(theme, &ui.navEvents, "Journal", ui.currentPage == pageEvents)),
	)
}

func navBtn(th *material.Theme, btn *widget.Clickable, label string, active bool) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Top: unit.Dp(2), Bottom: unit.Dp(2), Left: unit.Dp(8), Right: unit.Dp(8)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			b := material.Button(th, btn, label)
			if active {
				b.Background = th.Palette.ContrastBg
			} else {
				b.Background = color.NRGBA{A: 0}
			}
			b.Color = th.Palette.Fg
			return b.Layout(gtx)
		})
	}
}

func body(s string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return material.Body1(theme, s).Layout(gtx)
	}
}

func heading(s string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return material.H5(theme, s).Layout(gtx)
	}
}

func (ui *UI) layoutDashboard(gtx layout.Context) layout.Dimensions {
	children := []layout.FlexChild{
		layout.Rigid(heading("Dashboard")),
		layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
		layout.Rigid(body(fmt.Sprintf("Acting as: %s", ui.status.Principal))),
		layout.Rigid(body(fmt.Sprintf("Backend: %s", ui.status.Backend))),
		layout.Rigid(body(fmt.Sprintf("Tasks: %d", ui.status.Tasks))),
		layout.Rigid(body(fmt.Sprintf("Employees: %d", ui.status.Employees))),
		layout.Rigid(body(fmt.Sprintf("Journal events: %d", ui.status.Events))),
		layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
		layout.Rigid(body(ui.summary)),
		layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return material.Button(theme, &ui.refreshBtn, "Refresh").Layout(gtx)
		}),
	}
	if ui.lastErr != "" {
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			label := material.Caption(theme, ui.lastErr)
			label.Color = red
			return label.Layout(gtx)
		}))
	}
	return layout.Flex{Axis: layout.Vertical, Spacing: layout.SpaceEnd}.Layout(gtx, children...)
}

func editorField(ed *widget.Editor, hint string, weight float32) layout.FlexChild {
	return layout.Flexed(weight, func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Right: unit.Dp(8)}.Layout(gtx, material.Editor(theme, ed, hint).Layout)
	})
}

func (ui *UI) layoutTasks(gtx layout.Context) layout.Dimensions {
	for len(ui.completeBtn) < len(ui.tasks) {
		ui.completeBtn = append(ui.completeBtn, widget.Clickable{})
	}

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(heading("Tasks")),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{}.Layout(gtx,
				editorField(&ui.titleEditor, "Title", 2),
				editorField(&ui.descEditor, "Description", 3),
				editorField(&ui.catEditor, "Category", 1),
				editorField(&ui.minutesEditor, "Minutes", 1),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return material.Button(theme, &ui.createTaskBtn, "Create").Layout(gtx)
				}),
			)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return material.List(theme, &ui.taskList).Layout(gtx, len(ui.tasks), func(gtx layout.Context, i int) layout.Dimensions {
				t := ui.tasks[i]
				return layout.Inset{Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
						layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
							return layoutTask(gtx, t)
						}),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							if strings.EqualFold(t.Status, task.StatusCompleted) || t.Creator != ui.status.Principal {
								return layout.Dimensions{}
							}
							return material.Button(theme, &ui.completeBtn[i], "Complete").Layout(gtx)
						}),
					)
				})
			})
		}),
	)
}

func layoutTask(gtx layout.Context, t task.Task) layout.Dimensions {
	statusColor := grey
	switch {
	case strings.EqualFold(t.Status, task.StatusCompleted):
		statusColor = green
	case t.DueAt.Before(time.Now()):
		statusColor = red
	case strings.EqualFold(t.Status, task.StatusCreated):
		statusColor = orange
	}
	assignee := "unassigned"
	if id, ok := t.Assignee.Get(); ok {
		assignee = "assigned to " + shortID(id)
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			label := material.Body2(theme, t.Title)
			label.Font.Weight = font.Bold
			return label.Layout(gtx)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return material.Caption(theme, t.Description).Layout(gtx)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			label := material.Caption(theme, fmt.Sprintf("[%s] due %s · %s · by %s · %s",
				t.Status, t.DueAt.Local().Format("Jan 2 15:04"), assignee, t.Creator, shortID(t.ID)))
			label.Color = statusColor
			return label.Layout(gtx)
		}),
	)
}

func (ui *UI) layoutPastDue(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(heading("Past due")),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			if len(ui.pastDue) == 0 {
				return body("Nothing is past due.")(gtx)
			}
			return material.List(theme, &ui.pastDueList).Layout(gtx, len(ui.pastDue), func(gtx layout.Context, i int) layout.Dimensions {
				return layout.Inset{Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layoutTask(gtx, ui.pastDue[i])
				})
			})
		}),
	)
}

func (ui *UI) layoutEmployees(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(heading("Employees")),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{}.Layout(gtx,
				editorField(&ui.nameEditor, "Name", 1),
				editorField(&ui.emailEditor, "Email", 1),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return material.Button(theme, &ui.createEmployeeBtn, "Add").Layout(gtx)
				}),
			)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return material.List(theme, &ui.employeeList).Layout(gtx, len(ui.employees), func(gtx layout.Context, i int) layout.Dimensions {
				e := ui.employees[i]
				return layout.Inset{Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							label := material.Body2(theme, e.Name)
							label.Font.Weight = font.Bold
							return label.Layout(gtx)
						}),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							label := material.Caption(theme, e.Email+" · "+e.ID)
							label.Color = grey
							return label.Layout(gtx)
						}),
					)
				})
			})
		}),
	)
}

func (ui *UI) layoutEvents(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(heading("Journal")),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return material.List(theme, &ui.eventList).Layout(gtx, len(ui.events), func(gtx layout.Context, i int) layout.Dimensions {
				e := ui.events[i]
				return layout.Inset{Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							label := material.Body2(theme, fmt.Sprintf("[%s] %s by %s", e.Timestamp.Local().Format("15:04:05"), e.Type, e.Source))
							label.Font.Weight = font.Bold
							return label.Layout(gtx)
						}),
						layout.Rigid(func(gtx layout.Context) layout.Dimensions {
							label := material.Caption(theme, "record "+shortID(e.Subject)+" · event "+shortID(e.ID))
							label.Color = grey
							return label.Layout(gtx)
						}),
					)
				})
			})
		}),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}

// Data fetching

func (ui *UI) pollData() {
	ui.fetchAll()
	ticker := time.NewTicker(5 * time.Second)
	for range ticker.C {
		ui.fetchAll()
	}
}

func (ui *UI) fetchAll() {
	status, statusErr := ui.api.Status()
	summary, summaryErr := ui.api.Analysis()
	tasks, tasksErr := ui.api.Tasks()
	pastDue, pastDueErr := ui.api.PastDue()
	employees, employeesErr := ui.api.Employees()
	events, eventsErr := ui.api.Events(100)

	ui.mu.Lock()
	ui.lastErr = ""
	if statusErr == nil {
		ui.status = status
	}
	if summaryErr == nil {
		ui.summary = summary
	}
	if tasksErr == nil {
		ui.tasks = tasks
	}
	if pastDueErr == nil {
		ui.pastDue = pastDue
	}
	if employeesErr == nil {
		ui.employees = employees
	}
	if eventsErr == nil {
		ui.events = events
	}
	for _, err := range []error{statusErr, summaryErr, tasksErr, pastDueErr, employeesErr, eventsErr} {
		if err != nil {
			log.Printf("fetch: %v", err)
			ui.lastErr = err.Error()
		}
	}
	ui.mu.Unlock()
	ui.window.Invalidate()
}

func (ui *UI) createTask(in tracker.TaskInput) {
	if _, err := ui.api.CreateTask(in); err != nil {
		ui.report("create task", err)
		return
	}
	ui.mu.Lock()
	ui.titleEditor.SetText("")
	ui.descEditor.SetText("")
	ui.catEditor.SetText("")
	ui.minutesEditor.SetText("")
	ui.mu.Unlock()
	ui.fetchAll()
}

func (ui *UI) completeTask(id string) {
	if err := ui.api.CompleteTask(id); err != nil {
		ui.report("complete task", err)
		return
	}
	ui.fetchAll()
}

func (ui *UI) createEmployee(name, email string) {
	if _, err := ui.api.CreateEmployee(name, email); err != nil {
		ui.report("create employee", err)
		return
	}
	ui.mu.Lock()
	ui.nameEditor.SetText("")
	ui.emailEditor.SetText("")
	ui.mu.Unlock()
	ui.fetchAll()
}

func (ui *UI) report(op string, err error) {
	log.Printf("%s: %v", op, err)
	ui.mu.Lock()
	ui.lastErr = fmt.Sprintf("%s: %v", op, err)
	ui.mu.Unlock()
	ui.window.Invalidate()
}
