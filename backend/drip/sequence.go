package drip

import "sort"

// SeqLesson and SeqModule carry just the ordering data linear navigation
// needs. Lock state is deliberately not consulted here; access enforcement
// belongs to the lesson-fetch boundary.
type SeqLesson struct {
	ID         uint
	OrderIndex int
}

type SeqModule struct {
	ID         uint
	OrderIndex int
	Lessons    []SeqLesson
}

// LessonRef identifies a lesson and the module containing it.
type LessonRef struct {
	LessonID uint
	ModuleID uint
}

// NextLesson returns the lesson after current in course order: the next
// lesson within the same module, else the first lesson of the next module.
// Returns nil at the end of the course. When the next module exists but has
// zero lessons, navigation stops there rather than skipping ahead; whether it
// should skip is an unresolved product question, so the behavior is kept.
func NextLesson(modules []SeqModule, currentLessonID uint) *LessonRef {
	return neighbor(modules, currentLessonID, false)
}

// PreviousLesson is the mirror of NextLesson: the previous lesson within the
// module, else the last lesson of the preceding module.
func PreviousLesson(modules []SeqModule, currentLessonID uint) *LessonRef {
	return neighbor(modules, currentLessonID, true)
}

func neighbor(modules []SeqModule, currentLessonID uint, backwards bool) *LessonRef {
	mods := sorted(modules)

	mi, li := locate(mods, currentLessonID)
	if mi < 0 {
		return nil
	}

	if backwards {
		if li > 0 {
			return &LessonRef{LessonID: mods[mi].Lessons[li-1].ID, ModuleID: mods[mi].ID}
		}
		if mi == 0 {
			return nil
		}
		prev := mods[mi-1]
		if len(prev.Lessons) == 0 {
			return nil
		}
		last := prev.Lessons[len(prev.Lessons)-1]
		return &LessonRef{LessonID: last.ID, ModuleID: prev.ID}
	}

	if li < len(mods[mi].Lessons)-1 {
		return &LessonRef{LessonID: mods[mi].Lessons[li+1].ID, ModuleID: mods[mi].ID}
	}
	if mi == len(mods)-1 {
		return nil
	}
	next := mods[mi+1]
	if len(next.Lessons) == 0 {
		return nil
	}
	return &LessonRef{LessonID: next.Lessons[0].ID, ModuleID: next.ID}
}

// sorted returns a copy ordered by OrderIndex, modules and lessons both, so
// callers can pass rows in any order.
func sorted(modules []SeqModule) []SeqModule {
	mods := make([]SeqModule, len(modules))
	copy(mods, modules)
	sort.SliceStable(mods, func(i, j int) bool { return mods[i].OrderIndex < mods[j].OrderIndex })
	for i := range mods {
		lessons := make([]SeqLesson, len(mods[i].Lessons))
		copy(lessons, mods[i].Lessons)
		sort.SliceStable(lessons, func(a, b int) bool { return lessons[a].OrderIndex < lessons[b].OrderIndex })
		mods[i].Lessons = lessons
	}
	return mods
}

func locate(mods []SeqModule, lessonID uint) (int, int) {
	for mi, m := range mods {
		for li, l := range m.Lessons {
			if l.ID == lessonID {
				return mi, li
			}
		}
	}
	return -1, -1
}
