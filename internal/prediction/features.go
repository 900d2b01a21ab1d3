/*
Copyright 2026 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package prediction

type FeatureType string

const (
	FeatureNumber FeatureType = "number"
	FeatureString FeatureType = "string"
)

// Feature documents one field of a prediction request record.
type Feature struct {
	Name        string      `json:"name"`
	Type        FeatureType `json:"type"`
	Description string      `json:"description"`
}

// RecognizedFeatures lists the fields of a patient record in request order.
var RecognizedFeatures = []Feature{
	{Name: "age", Type: FeatureNumber, Description: "Age of the person"},
	{Name: "sex", Type: FeatureString, Description: "Gender (Male, Female)"},
	{Name: "cp", Type: FeatureNumber, Description: "Chest pain type (0-3)"},
	{Name: "trtbps", Type: FeatureNumber, Description: "Resting blood pressure (in mm Hg)"},
	{Name: "chol", Type: FeatureNumber, Description: "Serum cholesterol in mg/dl"},
	{Name: "fbs", Type: FeatureNumber, Description: "Fasting blood sugar > 120 mg/dl (1 = true, 0 = false)"},
	{Name: "restecg", Type: FeatureNumber, Description: "Resting electrocardiographic results (0-2)"},
	{Name: "thalachh", Type: FeatureNumber, Description: "Maximum heart rate achieved"},
	{Name: "exng", Type: FeatureNumber, Description: "Exercise induced angina (1 = yes, 0 = no)"},
	{Name: "oldpeak", Type: FeatureNumber, Description: "ST depression induced by exercise relative to rest"},
	{Name: "slp", Type: FeatureNumber, Description: "Slope of the peak exercise ST segment (0-2)"},
	{Name: "caa", Type: FeatureNumber, Description: "Number of major vessels (0-4) colored by fluoroscopy"},
	{Name: "thall", Type: FeatureNumber, Description: "Thalassemia (0-3)"},
}
