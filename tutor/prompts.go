// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tutor

import (
	"fmt"
)

// System instructions for the two pipeline stages. Each combines the
// stage's role, goal and persona into a single instruction for the
// Provider.
const (
	assessorInstruction = "You are a Learning Gap Assessor: an expert educator with years of " +
		"experience in identifying learning gaps and assessing student knowledge levels. " +
		"You can quickly pinpoint areas where a student needs additional support or " +
		"education based on their background and goals. " +
		"Your goal is to accurately identify a student's learning gaps based on their " +
		"background and goals. Report the student's assessed knowledge level and a list " +
		"of identified gaps, each with a short description and a severity from 1 to 5."

	designerInstruction = "You are a Learning Materials Designer: a curriculum designer " +
		"specializing in creating customized learning materials that address specific " +
		"learning gaps. You excel at matching resources to a student's learning style, " +
		"level, and goals to maximize their educational progress. " +
		"Your goal is to create personalized, effective learning materials to address " +
		"the identified learning gaps. Recommend concrete resources, learning milestones " +
		"in order, and an estimated time to complete the plan in hours."
)

// assessmentPrompt builds the stage-one context. A structured profile is
// rendered with the labeled fields; a freeform query is forwarded as the
// student's own words.
func assessmentPrompt(profile StudentProfile, query string) string {
	if !profile.Structured() {
		return fmt.Sprintf(
			"Analyze the student's request below and identify their learning gaps. "+
				"The request is freeform; infer the topic, background and goals from it.\n\n%s",
			query)
	}
	return fmt.Sprintf(
		"Analyze the student's information: topic of interest '%s', background '%s', "+
			"and goals '%s'. Conduct a thorough assessment and identify learning gaps.",
		profile.Topic, profile.Background, profile.Goals)
}

// materialsPrompt builds the stage-two context from the stage-one
// assessment. The assessment text is included verbatim.
func materialsPrompt(profile StudentProfile, assessment string) string {
	if !profile.Structured() {
		return fmt.Sprintf(
			"Based on the assessment results below, create personalized learning "+
				"materials for the student with appropriate resources and milestones.\n\n"+
				"Assessment results:\n%s",
			assessment)
	}
	return fmt.Sprintf(
		"Based on the assessment results below, create personalized learning materials "+
			"for the student. Topic: '%s', Student goals: '%s'. Generate a customized "+
			"learning plan with appropriate resources and milestones.\n\n"+
			"Assessment results:\n%s",
		profile.Topic, profile.Goals, assessment)
}
