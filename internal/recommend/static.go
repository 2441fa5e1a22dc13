package recommend

import "github.com/Skufu/bpfuel/internal/bp"

var staticTable = map[string]Set{
	bp.CategoryLow: {
		Diet: []string{
			"Increase salt intake slightly",
			"Stay hydrated with plenty of fluids",
			"Eat smaller, more frequent meals",
			"Include more high-carbohydrate foods",
			"Add more B-vitamins like B12 and folic acid",
		},
		Exercise: []string{
			"Start with gentle exercises like walking",
			"Avoid sudden changes in posture",
			"Incorporate strength training gradually",
			"Try recumbent exercises like cycling",
			"Stay hydrated during workouts",
		},
		Lifestyle: []string{
			"Rise slowly from sitting or lying down",
			"Avoid prolonged standing",
			"Wear compression stockings",
			"Limit alcohol consumption",
			"Consider elevating the head of your bed",
		},
	},
	bp.CategoryNormal: {
		Diet: []string{
			"Maintain a balanced diet with plenty of fruits and vegetables",
			"Keep sodium intake moderate",
			"Stay hydrated with water",
			"Include potassium-rich foods like bananas and avocados",
			"Consume healthy fats like olive oil and avocados",
		},
		Exercise: []string{
			"Aim for 150 minutes of moderate activity weekly",
			"Include both cardio and strength training",
			"Try activities like walking, swimming, or cycling",
			"Practice yoga for flexibility and stress reduction",
			"Take active breaks throughout the day",
		},
		Lifestyle: []string{
			"Maintain a healthy sleep schedule",
			"Practice stress management techniques",
			"Limit alcohol and avoid tobacco",
			"Monitor your blood pressure regularly",
			"Stay socially connected",
		},
	},
	bp.CategoryElevated: {
		Diet: []string{
			"Follow the DASH diet (Dietary Approaches to Stop Hypertension)",
			"Reduce sodium intake to less than 2,300mg daily",
			"Increase potassium intake through fruits and vegetables",
			"Limit processed foods and added sugars",
			"Consider using herbs and spices instead of salt",
		},
		Exercise: []string{
			"Aim for 30 minutes of moderate exercise most days",
			"Focus on aerobic activities like brisk walking",
			"Try interval training for efficiency",
			"Add 2-3 days of strength training weekly",
			"Monitor your heart rate during exercise",
		},
		Lifestyle: []string{
			"Practice deep breathing or meditation daily",
			"Limit alcohol to 1 drink daily for women, 2 for men",
			"Quit smoking and avoid secondhand smoke",
			"Monitor your blood pressure at home regularly",
			"Maintain a healthy weight",
		},
	},
	bp.CategoryStage1: {
		Diet: []string{
			"Follow the DASH diet strictly",
			"Reduce sodium intake to 1,500mg daily",
			"Increase consumption of fruits, vegetables, and whole grains",
			"Limit red meat and increase lean proteins",
			"Consider a Mediterranean diet approach",
		},
		Exercise: []string{
			"Consult with a doctor before starting an exercise program",
			"Begin with 10-15 minutes of daily walking",
			"Gradually increase to 30-45 minutes most days",
			"Include regular strength training",
			"Try low-impact activities like swimming",
		},
		Lifestyle: []string{
			"Practice stress reduction techniques daily",
			"Get 7-8 hours of quality sleep nightly",
			"Monitor your blood pressure daily",
			"Limit caffeine intake",
			"Consider working with a healthcare provider on a management plan",
		},
	},
	bp.CategoryStage2: {
		Diet: []string{
			"Work with a dietitian on a personalized eating plan",
			"Strictly limit sodium to less than 1,500mg daily",
			"Focus on plant-based foods",
			"Avoid processed foods completely",
			"Consider the DASH or Mediterranean diet under medical supervision",
		},
		Exercise: []string{
			"Exercise only under medical supervision",
			"Start with very short (5-10 minute) walking sessions",
			"Focus on gentle movement like tai chi",
			"Avoid high-intensity workouts",
			"Monitor blood pressure before and after activity",
		},
		Lifestyle: []string{
			"Take all prescribed medications regularly",
			"Monitor blood pressure multiple times daily",
			"Follow up with healthcare provider regularly",
			"Eliminate alcohol and caffeine",
			"Prioritize stress management and quality sleep",
		},
	},
	bp.CategoryCrisis: {
		Diet: []string{
			"Follow strict medical advice on diet",
			"Severe sodium restriction may be necessary",
			"Maintain consistent meal timing",
			"Stay well hydrated",
			"Track all food intake",
		},
		Exercise: []string{
			"Do not exercise without medical clearance",
			"Follow specific exercise prescriptions from your doctor",
			"Focus on gentle movement as approved",
			"Monitor blood pressure before, during, and after any activity",
			"Report any symptoms immediately",
		},
		Lifestyle: []string{
			"Seek immediate medical attention",
			"Take all prescribed medications exactly as directed",
			"Monitor blood pressure as directed by your physician",
			"Rest and avoid stressful situations",
			"Attend all follow-up appointments",
		},
	},
}

// Static returns a copy of the fixed advice for category. Unknown categories
// get the Normal entry.
func Static(category string) Set {
	s, ok := staticTable[category]
	if !ok {
		s = staticTable[bp.CategoryNormal]
	}
	s = s.clone()
	s.Source = SourceStatic
	return s
}
