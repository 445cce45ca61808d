package entities

// ControlKind identifica o controle de entrada que o renderizador genérico
// deve produzir para uma pergunta
type ControlKind string

const (
	ControlTextInput     ControlKind = "text_input"
	ControlNumberInput   ControlKind = "number_input"
	ControlRadioGroup    ControlKind = "radio_group"
	ControlCheckboxGroup ControlKind = "checkbox_group"
	ControlSelect        ControlKind = "select"
	ControlDatePicker    ControlKind = "date_picker"
	ControlSlider        ControlKind = "slider"
	ControlFileUpload    ControlKind = "file_upload"
	ControlYesNo         ControlKind = "yes_no"
)

// Valores padrão do slider quando min/max/step estão ausentes
const (
	SliderDefaultMin  = 0
	SliderDefaultMax  = 100
	SliderDefaultStep = 1
)

// Control descreve o controle de entrada de uma pergunta: tipo do controle
// mais apenas os campos extras que aquele tipo consome
type Control struct {
	QuestionID  string      `json:"question_id"`
	Kind        ControlKind `json:"kind"`
	Label       string      `json:"label"`
	Required    bool        `json:"required"`
	Placeholder string      `json:"placeholder,omitempty"`
	Options     []string    `json:"options,omitempty"`
	Min         float64     `json:"min,omitempty"`
	Max         float64     `json:"max,omitempty"`
	Step        float64     `json:"step,omitempty"`
	Accept      string      `json:"accept,omitempty"`
}

// RenderControl mapeia uma pergunta de formulário para seu controle. Total
// sobre o enum: tipos desconhecidos renderizam nada (nil), de propósito.
func RenderControl(q Question) *Control {
	c := &Control{QuestionID: q.ID, Label: q.Label, Required: q.Required}

	switch q.Type {
	case QuestionText:
		c.Kind = ControlTextInput
		c.Placeholder = q.Placeholder
	case QuestionRadio:
		c.Kind = ControlRadioGroup
		c.Options = q.Options
	case QuestionCheckbox:
		c.Kind = ControlCheckboxGroup
		c.Options = q.Options
	case QuestionDropdown:
		c.Kind = ControlSelect
		c.Options = q.Options
		c.Placeholder = q.Placeholder
	case QuestionDate:
		c.Kind = ControlDatePicker
	case QuestionSlider:
		c.Kind = ControlSlider
		c.Min, c.Max, c.Step = sliderBounds(q.Min, q.Max, q.Step)
	case QuestionFile:
		c.Kind = ControlFileUpload
	case QuestionImage:
		// restrição de imagem aparece apenas no rótulo; nenhum upload real
		c.Kind = ControlFileUpload
		c.Accept = "image"
	case QuestionYesNo:
		c.Kind = ControlYesNo
		c.Options = []string{"yes", "no"}
	default:
		return nil
	}

	return c
}

// RenderScreeningControl é o mapeamento equivalente para perguntas de triagem
func RenderScreeningControl(q ScreeningQuestion) *Control {
	c := &Control{QuestionID: q.ID, Label: q.Question, Required: q.Required}

	switch q.Type {
	case ScreeningText:
		c.Kind = ControlTextInput
	case ScreeningMultipleChoice:
		c.Kind = ControlRadioGroup
		c.Options = q.Options
	case ScreeningCheckbox:
		c.Kind = ControlCheckboxGroup
		c.Options = q.Options
	case ScreeningYesNo:
		c.Kind = ControlYesNo
		c.Options = []string{"yes", "no"}
	case ScreeningNumber:
		c.Kind = ControlNumberInput
	case ScreeningSlider:
		c.Kind = ControlSlider
		c.Min, c.Max, c.Step = SliderDefaultMin, SliderDefaultMax, SliderDefaultStep
	case ScreeningDate:
		c.Kind = ControlDatePicker
	default:
		return nil
	}

	return c
}

func sliderBounds(min, max, step *float64) (float64, float64, float64) {
	lo, hi, st := float64(SliderDefaultMin), float64(SliderDefaultMax), float64(SliderDefaultStep)
	if min != nil {
		lo = *min
	}
	if max != nil {
		hi = *max
	}
	if step != nil {
		st = *step
	}
	return lo, hi, st
}
