package draft

import "github.com/SAP-F-2025/course-authoring-service/internal/models"

// FormFromCourse loads a course fetched from the API back into editor form state.
func FormFromCourse(course *models.Course) *models.CourseForm {
	form := &models.CourseForm{
		ID:               course.ID,
		Title:            course.Title,
		Description:      course.Description,
		Instructor:       course.Instructor,
		Price:            course.Price,
		Duration:         course.Duration,
		Level:            course.Level,
		Category:         course.Category,
		WhatYouWillLearn: append([]string(nil), course.WhatYouWillLearn...),
		Requirements:     append([]string(nil), course.Requirements...),
		TargetAudience:   append([]string(nil), course.TargetAudience...),
		Modules:          make([]models.ModuleForm, 0, len(course.Modules)),
	}

	for _, m := range course.Modules {
		mf := models.ModuleForm{
			ID:            m.ID,
			Key:           m.Key,
			Title:         m.Title,
			Description:   m.Description,
			ContentType:   m.ContentType(),
			TheoryContent: m.TheoryContent,
		}
		switch c := m.Content.(type) {
		case models.VideoContent:
			mf.VideoURL = c.URL
			mf.VideoType = uploadTypeFor(c.Source)
		case models.DocumentContent:
			mf.DocumentURL = c.URL
			mf.DocumentType = uploadTypeFor(c.Source)
		}
		if m.Quiz != nil {
			mf.Quiz = quizForm(m.Quiz)
		}
		form.Modules = append(form.Modules, mf)
	}
	return form
}

func quizForm(quiz *models.Quiz) *models.QuizForm {
	qf := &models.QuizForm{
		ID:           quiz.ID,
		Title:        quiz.Title,
		PassingScore: quiz.PassingScore,
		TimeLimit:    quiz.TimeLimit,
		Questions:    make([]models.QuestionForm, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		question := models.QuestionForm{
			ID:           q.ID,
			Key:          q.Key,
			QuestionText: q.QuestionText,
			QuestionType: string(q.QuestionType),
			Points:       q.Points,
			Options:      make([]models.OptionForm, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, models.OptionForm{
				ID:         o.ID,
				Key:        o.Key,
				OptionText: o.OptionText,
				IsCorrect:  o.IsCorrect,
			})
		}
		qf.Questions = append(qf.Questions, question)
	}
	return qf
}
