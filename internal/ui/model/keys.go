package model

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey 处理导航与提交按键，未处理的按键交给当前输入框
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return true, tea.Quit
	}

	switch m.phase {
	case PhaseNames, PhaseRound:
		return m.handleFormKey(msg)
	case PhaseResult:
		switch msg.String() {
		case "enter", " ":
			return true, m.enterRound()
		case "q":
			return true, tea.Quit
		}
		return true, nil
	case PhaseGameOver:
		switch msg.String() {
		case "r":
			return true, m.reset()
		case "q":
			return true, tea.Quit
		}
		return true, nil
	}
	return false, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return true, m.focusInput(m.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return true, m.focusInput(m.focus - 1)
	case tea.KeyEnter:
		if m.focus < len(m.inputs)-1 {
			return true, m.focusInput(m.focus + 1)
		}
		if m.phase == PhaseNames {
			return true, m.startGame()
		}
		return true, m.submitRound()
	}
	return false, nil
}
