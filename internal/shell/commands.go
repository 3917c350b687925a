package shell

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/theirongolddev/orgchart/internal/cli"
	"github.com/theirongolddev/orgchart/internal/model"

	"github.com/dustin/go-humanize/english"
	"github.com/sirupsen/logrus"
)

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func (s *Session) handleTree() error {
	if s.Tree.Len() == 0 {
		fmt.Fprintln(s.Out, "(empty chart)")
		return nil
	}
	fmt.Fprint(s.Out, cli.RenderTree(cli.TreeLines(s.Tree), true))
	return nil
}

func (s *Session) handleList() error {
	var nodes []model.Node
	if s.Selected == "" {
		nodes = s.Tree.Roots()
	} else {
		kids, err := s.Tree.Children(s.Selected)
		if err != nil {
			return err
		}
		nodes = kids
	}
	if len(nodes) == 0 {
		fmt.Fprintln(s.Out, "(no reports)")
		return nil
	}
	for _, n := range nodes {
		fmt.Fprintln(s.Out, "  "+cli.RenderNodeLabel(n, true))
	}
	return nil
}

func (s *Session) handleSelect(args []string) error {
	if len(args) != 1 {
		return usage("select ID|-")
	}
	if args[0] == "-" {
		s.Selected = ""
		return nil
	}
	n, err := s.Tree.Get(args[0])
	if err != nil {
		return err
	}
	s.Selected = n.ID
	fmt.Fprintf(s.Out, "selected %s\n", n.Name)
	return nil
}

func (s *Session) handleAdd(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return usage("add NAME [TITLE [DEPARTMENT]]")
	}
	f := model.NodeFields{Name: args[0]}
	if len(args) > 1 {
		f.Title = args[1]
	}
	if len(args) > 2 {
		f.Department = args[2]
	}

	n, err := s.Tree.Insert(s.Operator, s.Selected, f)
	if err != nil {
		return err
	}
	s.Log.WithFields(logrus.Fields{"id": n.ID, "parent": n.ReportsTo, "operator": s.Operator.Name}).
		Debug("node added")
	fmt.Fprintln(s.Out, cli.OKStyle.Render(fmt.Sprintf("added %s (#%s)", n.Name, n.ID)))
	return s.mutated()
}

func (s *Session) handleDelete(args []string) error {
	if len(args) != 1 {
		return usage("del ID")
	}
	removed, err := s.Tree.Remove(s.Operator, args[0])
	if err != nil {
		return err
	}
	if slices.Contains(removed, s.Selected) {
		s.Selected = ""
	}
	s.Log.WithFields(logrus.Fields{"id": args[0], "removed": len(removed), "operator": s.Operator.Name}).
		Debug("subtree removed")
	fmt.Fprintln(s.Out, cli.OKStyle.Render("removed "+cli.FormatCount(len(removed), "node")))
	return s.mutated()
}

func (s *Session) handleRename(args []string) error {
	if len(args) != 2 {
		return usage("rename ID NAME")
	}
	n, err := s.Tree.Rename(s.Operator, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out, cli.OKStyle.Render("renamed to "+n.Name))
	return s.mutated()
}

func (s *Session) handleTitle(args []string) error {
	if len(args) != 2 {
		return usage("title ID TITLE")
	}
	n, err := s.Tree.UpdateTitle(s.Operator, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out, cli.OKStyle.Render(n.Name+" is now "+n.Title))
	return s.mutated()
}

func (s *Session) handleSuggest(args []string) error {
	if len(args) != 1 {
		return usage("suggest ID")
	}
	n, err := s.Tree.SuggestTitle(s.Operator, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out, cli.OKStyle.Render(n.Name+" is now "+n.Title))
	return s.mutated()
}

func (s *Session) handleFind(args []string) error {
	query := strings.Join(args, " ")
	matches := s.Tree.Search(query)
	if len(matches) == 0 {
		fmt.Fprintln(s.Out, "no matches")
		return nil
	}
	for _, n := range matches {
		fmt.Fprintln(s.Out, "  "+cli.RenderNodeLabel(n, true))
	}
	fmt.Fprintln(s.Out, english.Plural(len(matches), "match", "matches"))
	return nil
}

func (s *Session) handleShow(args []string) error {
	id := s.Selected
	if len(args) == 1 {
		id = args[0]
	} else if len(args) > 1 || id == "" {
		return usage("show [ID]")
	}

	n, err := s.Tree.Get(id)
	if err != nil {
		return err
	}
	chain, _ := s.Tree.Ancestors(id)
	reports, _ := s.Tree.Children(id)
	fmt.Fprint(s.Out, cli.RenderNodeDetail(n, chain, reports))
	return nil
}

func (s *Session) handleSave() error {
	if s.SaveFunc == nil {
		return errors.New("no database attached")
	}
	if err := s.SaveFunc(s.Tree); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	s.dirty = false
	fmt.Fprintln(s.Out, cli.OKStyle.Render("saved "+cli.FormatCount(s.Tree.Len(), "node")))
	return nil
}

func (s *Session) mutated() error {
	s.dirty = true
	if !s.AutoSave || s.SaveFunc == nil {
		return nil
	}
	if err := s.SaveFunc(s.Tree); err != nil {
		return fmt.Errorf("auto-saving chart: %w", err)
	}
	s.dirty = false
	return nil
}
