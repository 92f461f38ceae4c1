package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/SAP-F-2025/course-authoring-service/internal/session"
)

// ImportExportService moves course drafts in and out of xlsx workbooks
type ImportExportService interface {
	ImportDraft(ctx context.Context, actor string, reader io.Reader, filename string) (*models.ImportSummary, error)
	ExportDraft(ctx context.Context, actor string) ([]byte, error)
}

const (
	sheetCourse    = "Course"
	sheetModules   = "Modules"
	sheetQuestions = "Questions"
	maxOptions     = 6
)

var (
	courseHeaders   = []interface{}{"Field", "Value"}
	moduleHeaders   = []interface{}{"Module #", "Title", "Description", "Content Type", "Source", "URL", "Theory", "Quiz Title", "Passing Score", "Time Limit"}
	questionHeaders = []interface{}{"Module #", "Question Text", "Type", "Points", "Option A", "Option B", "Option C", "Option D", "Option E", "Option F", "Correct Answer"}
)

type importExportService struct {
	drafts session.Store
	logger *slog.Logger
}

func NewImportExportService(drafts session.Store, logger *slog.Logger) ImportExportService {
	return &importExportService{
		drafts: drafts,
		logger: logger,
	}
}

// ===== IMPORT =====

// ImportDraft reads a workbook into a course form. The form replaces the caller's
// draft only when every row parsed; otherwise the summary lists the bad cells.
func (s *importExportService) ImportDraft(ctx context.Context, actor string, reader io.Reader, filename string) (*models.ImportSummary, error) {
	s.logger.Info("Starting draft import", "filename", filename, "actor", actor)

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".xlsx" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}

	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	defer f.Close()

	p := &workbookParser{file: f, modules: make(map[int]int)}
	form := &models.CourseForm{Modules: []models.ModuleForm{}}
	p.parseCourse(form)
	p.parseModules(form)
	p.parseQuestions(form)

	summary := &models.ImportSummary{
		ModuleCount:   len(form.Modules),
		QuestionCount: countFormQuestions(form),
		Errors:        p.errs,
		Draft:         form,
	}
	if summary.Errors == nil {
		summary.Errors = []models.ImportValidationError{}
	}

	if len(p.errs) > 0 {
		summary.Status = models.ImportValidationFailed
		s.logger.Warn("Draft import rejected", "actor", actor, "error_count", len(p.errs))
		return summary, nil
	}

	if err := s.drafts.Put(ctx, actor, session.KeyDraft, form); err != nil {
		return nil, fmt.Errorf("failed to save imported draft: %w", err)
	}
	summary.Status = models.ImportCompleted

	s.logger.Info("Draft import completed",
		"actor", actor,
		"module_count", summary.ModuleCount,
		"question_count", summary.QuestionCount)
	return summary, nil
}

type workbookParser struct {
	file    *excelize.File
	modules map[int]int // module number -> index in form.Modules
	errs    []models.ImportValidationError
}

func (p *workbookParser) fail(sheet string, row, col int, message, value string) {
	column := ""
	if col > 0 {
		column, _ = excelize.ColumnNumberToName(col)
	}
	p.errs = append(p.errs, models.ImportValidationError{
		Sheet:   sheet,
		Row:     row,
		Column:  column,
		Message: message,
		Value:   value,
	})
}

// rows returns the data rows of a sheet, header excluded.
func (p *workbookParser) rows(sheet string, required bool) [][]string {
	rows, err := p.file.GetRows(sheet)
	if err != nil {
		if required {
			p.fail(sheet, 0, 0, "sheet is missing", "")
		}
		return nil
	}
	if len(rows) < 2 {
		return nil
	}
	return rows[1:]
}

func cell(row []string, col int) string {
	if col < len(row) {
		return strings.TrimSpace(row[col])
	}
	return ""
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (p *workbookParser) parseCourse(form *models.CourseForm) {
	for i, row := range p.rows(sheetCourse, true) {
		rowNum := i + 2
		key := strings.ToLower(cell(row, 0))
		value := cell(row, 1)

		switch key {
		case "":
			continue
		case "title":
			form.Title = value
		case "description":
			form.Description = value
		case "instructor":
			form.Instructor = value
		case "price":
			if value == "" {
				continue
			}
			price, err := strconv.ParseFloat(value, 64)
			if err != nil {
				p.fail(sheetCourse, rowNum, 2, "price must be a number", value)
				continue
			}
			form.Price = price
		case "duration":
			form.Duration = value
		case "level":
			form.Level = models.CourseLevel(value)
		case "category":
			form.Category = value
		case "what you will learn":
			form.WhatYouWillLearn = append(form.WhatYouWillLearn, value)
		case "requirement", "requirements":
			form.Requirements = append(form.Requirements, value)
		case "target audience":
			form.TargetAudience = append(form.TargetAudience, value)
		default:
			p.fail(sheetCourse, rowNum, 1, "unknown course field", cell(row, 0))
		}
	}
}

func (p *workbookParser) parseModules(form *models.CourseForm) {
	for i, row := range p.rows(sheetModules, false) {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		number, err := strconv.Atoi(cell(row, 0))
		if err != nil || number < 1 {
			p.fail(sheetModules, rowNum, 1, "module number must be a positive integer", cell(row, 0))
			continue
		}
		if _, dup := p.modules[number]; dup {
			p.fail(sheetModules, rowNum, 1, "duplicate module number", cell(row, 0))
			continue
		}

		module := models.ModuleForm{
			Title:         cell(row, 1),
			Description:   cell(row, 2),
			ContentType:   models.ContentType(strings.ToUpper(cell(row, 3))),
			TheoryContent: cell(row, 6),
		}
		source := models.UploadType(strings.ToUpper(cell(row, 4)))
		switch module.ContentType {
		case models.ContentVideo:
			module.VideoType, module.VideoURL = source, cell(row, 5)
		case models.ContentDocument:
			module.DocumentType, module.DocumentURL = source, cell(row, 5)
		case "":
		default:
			p.fail(sheetModules, rowNum, 4, "content type must be VIDEO or DOCUMENT", cell(row, 3))
			continue
		}

		if quiz, ok := p.parseQuiz(row, rowNum); ok {
			module.Quiz = quiz
		}

		p.modules[number] = len(form.Modules)
		form.Modules = append(form.Modules, module)
	}
}

func (p *workbookParser) parseQuiz(row []string, rowNum int) (*models.QuizForm, bool) {
	title, score, limit := cell(row, 7), cell(row, 8), cell(row, 9)
	if title == "" && score == "" && limit == "" {
		return nil, false
	}

	quiz := &models.QuizForm{Title: title, Questions: []models.QuestionForm{}}
	if score != "" {
		v, err := strconv.Atoi(score)
		if err != nil {
			p.fail(sheetModules, rowNum, 9, "passing score must be an integer", score)
		}
		quiz.PassingScore = v
	}
	if limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil {
			p.fail(sheetModules, rowNum, 10, "time limit must be an integer", limit)
		} else {
			quiz.TimeLimit = &v
		}
	}
	return quiz, true
}

func (p *workbookParser) parseQuestions(form *models.CourseForm) {
	for i, row := range p.rows(sheetQuestions, false) {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		number, err := strconv.Atoi(cell(row, 0))
		index, known := p.modules[number]
		if err != nil || !known {
			p.fail(sheetQuestions, rowNum, 1, "question refers to an unknown module", cell(row, 0))
			continue
		}

		question := models.QuestionForm{
			QuestionText: cell(row, 1),
			QuestionType: strings.ToUpper(cell(row, 2)),
			Options:      []models.OptionForm{},
		}
		if points := cell(row, 3); points != "" {
			v, err := strconv.Atoi(points)
			if err != nil {
				p.fail(sheetQuestions, rowNum, 4, "points must be an integer", points)
				continue
			}
			question.Points = v
		}

		// Option columns keep their letter, so blanks between options are skipped
		// but still count toward the letter.
		letters := make(map[string]int)
		for j := 0; j < maxOptions; j++ {
			text := cell(row, 4+j)
			if text == "" {
				continue
			}
			letters[optionLetter(j)] = len(question.Options)
			question.Options = append(question.Options, models.OptionForm{OptionText: text})
		}

		answer := cell(row, 4+maxOptions)
		for _, letter := range strings.Split(answer, ",") {
			letter = strings.ToUpper(strings.TrimSpace(letter))
			if letter == "" {
				continue
			}
			pos, ok := letters[letter]
			if !ok {
				p.fail(sheetQuestions, rowNum, 5+maxOptions, "correct answer names an empty option", letter)
				continue
			}
			question.Options[pos].IsCorrect = true
		}

		module := &form.Modules[index]
		if module.Quiz == nil {
			module.Quiz = &models.QuizForm{Questions: []models.QuestionForm{}}
		}
		module.Quiz.Questions = append(module.Quiz.Questions, question)
	}
}

func optionLetter(i int) string {
	return string(rune('A' + i))
}

// ===== EXPORT =====

func (s *importExportService) ExportDraft(ctx context.Context, actor string) ([]byte, error) {
	var form models.CourseForm
	if err := s.drafts.Get(ctx, actor, session.KeyDraft, &form); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetCourse); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	for _, name := range []string{sheetModules, sheetQuestions} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
		}
	}

	w := &sheetWriter{file: f}
	w.write(sheetCourse, courseHeaders)
	w.write(sheetCourse, []interface{}{"Title", form.Title})
	w.write(sheetCourse, []interface{}{"Description", form.Description})
	w.write(sheetCourse, []interface{}{"Instructor", form.Instructor})
	w.write(sheetCourse, []interface{}{"Price", form.Price})
	w.write(sheetCourse, []interface{}{"Duration", form.Duration})
	w.write(sheetCourse, []interface{}{"Level", string(form.Level)})
	w.write(sheetCourse, []interface{}{"Category", form.Category})
	for _, v := range form.WhatYouWillLearn {
		w.write(sheetCourse, []interface{}{"What You Will Learn", v})
	}
	for _, v := range form.Requirements {
		w.write(sheetCourse, []interface{}{"Requirements", v})
	}
	for _, v := range form.TargetAudience {
		w.write(sheetCourse, []interface{}{"Target Audience", v})
	}

	w.write(sheetModules, moduleHeaders)
	w.write(sheetQuestions, questionHeaders)
	for i, module := range form.Modules {
		number := i + 1
		w.write(sheetModules, moduleRow(number, &module))
		if module.Quiz == nil {
			continue
		}
		for j, question := range module.Quiz.Questions {
			row, verr := questionRow(number, &question)
			if verr != nil {
				return nil, ValidationErrors{*verr}.WithPrefix(fmt.Sprintf("quiz.questions[%d].", j)).InModule(i)
			}
			w.write(sheetQuestions, row)
		}
	}
	if w.err != nil {
		return nil, fmt.Errorf("failed to write Excel rows: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	file *excelize.File
	next map[string]int
	err  error
}

func (w *sheetWriter) write(sheet string, values []interface{}) {
	if w.err != nil {
		return
	}
	if w.next == nil {
		w.next = make(map[string]int)
	}
	w.next[sheet]++
	start, err := excelize.CoordinatesToCellName(1, w.next[sheet])
	if err != nil {
		w.err = err
		return
	}
	w.err = w.file.SetSheetRow(sheet, start, &values)
}

func moduleRow(number int, m *models.ModuleForm) []interface{} {
	source, url := string(m.VideoType), m.VideoURL
	if m.ContentType == models.ContentDocument {
		source, url = string(m.DocumentType), m.DocumentURL
	}
	row := []interface{}{number, m.Title, m.Description, string(m.ContentType), source, url, m.TheoryContent}
	if m.Quiz != nil {
		var limit interface{} = ""
		if m.Quiz.TimeLimit != nil {
			limit = *m.Quiz.TimeLimit
		}
		row = append(row, m.Quiz.Title, m.Quiz.PassingScore, limit)
	}
	return row
}

// questionRow lays a question out over the fixed option columns. A question with
// more options than there are columns cannot be exported.
func questionRow(number int, q *models.QuestionForm) ([]interface{}, *ValidationError) {
	if len(q.Options) > maxOptions {
		return nil, NewValidationError("options",
			fmt.Sprintf("Question has %d options; a workbook holds at most %d", len(q.Options), maxOptions), len(q.Options))
	}
	row := []interface{}{number, q.QuestionText, q.QuestionType, q.Points}
	var correct []string
	for j := 0; j < maxOptions; j++ {
		if j >= len(q.Options) {
			row = append(row, "")
			continue
		}
		row = append(row, q.Options[j].OptionText)
		if q.Options[j].IsCorrect {
			correct = append(correct, optionLetter(j))
		}
	}
	return append(row, strings.Join(correct, ",")), nil
}

func countFormQuestions(form *models.CourseForm) int {
	n := 0
	for _, m := range form.Modules {
		if m.Quiz != nil {
			n += len(m.Quiz.Questions)
		}
	}
	return n
}
