package openai

const extractionShapeExample = `{
  "firstName": "",
  "lastName": "",
  "email": "",
  "phoneNumber": "",
  "skills": ["", ""],
  "education": [
    { "degree": "", "university": "", "year": "" }
  ],
  "workExperience": [
    { "jobTitle": "", "company": "", "duration": "" }
  ],
  "certifications": [""]
}`

const extractionPromptTemplate = `Extract the following information from this resume.
Return ONLY a valid JSON object in this exact format:

%s

Rules:
- Use empty strings or empty arrays for details that do not appear in the resume. Do not invent values.
- The email field must contain the candidate's email address exactly as written in the resume.
- Output must start with the opening brace { and end with the closing brace }. Do not include any preamble, explanation, or markdown fences.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Resume Text:
%s`
